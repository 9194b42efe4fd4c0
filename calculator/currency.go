package calculator

import (
	"math"
	"strings"
	"unicode"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySplit is a read-only view of an amount in whole units and subunits.
type CurrencySplit struct {
	MajorUnits int64  `json:"major_units"`
	MinorUnits int64  `json:"minor_units"`
	Formatted  string `json:"formatted"`
}

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

var currencySymbols = map[string]string{
	"BDT": "৳",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"MMK": "Ks ",
}

// ToMajorMinor splits amount into floor(amount) and the rounded hundredths left over.
// A remainder that rounds up to 100 carries into the major units.
func ToMajorMinor(amount any, locale string) CurrencySplit {
	d := lenient("ToMajorMinor", amount, zero)
	major := d.Floor()
	minor := d.Sub(major).Mul(hundred).Round(0).IntPart()
	if minor >= 100 {
		major = major.Add(one)
		minor = 0
	}
	return CurrencySplit{
		MajorUnits: major.IntPart(),
		MinorUnits: minor,
		Formatted:  Format(d, locale),
	}
}

// FromMajorMinor parses a display string such as "৳ 1,234.50", "€1.234,50", "MMK -20,000"
// or "(15.00)" back into an amount. Currency glyphs and codes are dropped and the decimal
// mark is told apart from grouping by position (see decimalMark). Unparsable input yields 0.
func FromMajorMinor(formatted string) decimal.Decimal {
	s := strings.TrimSpace(formatted)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	runes := []rune(s)
	first, last := -1, -1
	for i, r := range runes {
		if isDigit(r) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return unparsableCurrency(formatted)
	}
	for _, r := range runes[:first] {
		if r == '-' {
			neg = true
		}
	}

	start := first
	// ".5" is a fraction; "Rs.10" is a prefix.
	if first > 0 && runes[first-1] == '.' && (first < 2 || !unicode.IsLetter(runes[first-2])) {
		start = first - 1
	}
	digits := runes[start : last+1]

	whole, frac := digits, []rune(nil)
	if mark := decimalMark(digits); mark >= 0 {
		whole, frac = digits[:mark], digits[mark+1:]
	}
	units, ok := ungroup(whole)
	if !ok {
		return unparsableCurrency(formatted)
	}

	clean := units
	if len(frac) > 0 {
		clean += "." + string(frac)
	}
	if neg {
		clean = "-" + clean
	}
	val, err := decimal.NewFromString(clean)
	if err != nil {
		return unparsableCurrency(formatted)
	}
	return quantize(val)
}

// decimalMark returns the index of the decimal mark in digits, or -1 when every '.' and
// ',' in it groups thousands. Only the last mark can be decimal. It is when one, two or
// more than three digits follow it. With exactly three it is decimal only when the other
// mark appears before it ("1,234.567") or it is the sole '.' ("5.255"); otherwise it
// groups ("20,000", "1.234.567").
func decimalMark(digits []rune) int {
	last := -1
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] == '.' || digits[i] == ',' {
			last = i
			break
		}
	}
	if last < 0 || !allDigits(digits[last+1:]) {
		return -1
	}

	other := '.'
	if digits[last] == '.' {
		other = ','
	}
	head := string(digits[:last])
	switch {
	case len(digits)-1-last != 3:
		return last
	case strings.ContainsRune(head, other):
		return last
	case digits[last] == '.' && !strings.ContainsRune(head, '.'):
		return last
	}
	return -1
}

// ungroup drops group separators from the whole units. Groups after the first hold two
// (Indian lakh grouping) or three digits, and the last holds three.
func ungroup(whole []rune) (string, bool) {
	if len(whole) == 0 {
		return "0", true
	}
	var groups []string
	var cur strings.Builder
	for _, r := range whole {
		switch {
		case isDigit(r):
			cur.WriteRune(r)
		case isGroupSeparator(r):
			if cur.Len() == 0 {
				return "", false
			}
			groups = append(groups, cur.String())
			cur.Reset()
		default:
			return "", false
		}
	}
	groups = append(groups, cur.String())

	for i, g := range groups[1:] {
		if len(g) != 3 && (len(g) != 2 || i == len(groups)-2) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func isGroupSeparator(r rune) bool {
	switch r {
	case '.', ',', '\'', '’', ' ', '\u00a0', '\u2009', '\u202f':
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !isDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}

func unparsableCurrency(formatted string) decimal.Decimal {
	config.LogWarning(config.GetLogger(), "Calculator", "FromMajorMinor", "unparsable currency string coerced to 0", formatted)
	return quantize(zero)
}

// RoundToCurrency rounds to the nearest 0.01.
func RoundToCurrency(amount any) decimal.Decimal {
	return quantize(lenient("RoundToCurrency", amount, zero))
}

// Format renders amount with the locale's currency symbol and exactly 2 fraction digits,
// grouped the way the locale groups numbers. Whole units and cents are printed separately
// so no digit passes through a float.
func Format(amount any, locale string) string {
	d := quantize(lenient("Format", amount, zero))
	tag := parseLocale(locale)
	p := message.NewPrinter(tag)

	sign := ""
	if d.Sign() < 0 {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(hundred).IntPart()

	var units string
	if whole.LessThanOrEqual(maxInt64) {
		units = p.Sprint(number.Decimal(whole.IntPart()))
	} else {
		config.LogWarning(config.GetLogger(), "Calculator", "Format", "amount too large to group, printed ungrouped", whole.String())
		units = whole.String()
	}
	return sign + symbolFor(tag) + units + decimalSeparator(p) + p.Sprint(number.Decimal(cents, number.MinIntegerDigits(2)))
}

// decimalSeparator is whatever the locale prints between the 1 and the 5 of 1.5.
func decimalSeparator(p *message.Printer) string {
	r := []rune(p.Sprint(number.Decimal(1.5, number.Scale(1))))
	if len(r) < 3 {
		return "."
	}
	return string(r[1 : len(r)-1])
}

func parseLocale(locale string) language.Tag {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		locale = config.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		config.LogWarning(config.GetLogger(), "Calculator", "Format", "unknown locale, using default", locale)
		return language.MustParse(config.DefaultLocale)
	}
	return tag
}

func symbolFor(tag language.Tag) string {
	unit, _ := currency.FromTag(tag)
	code := unit.String()
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code + " "
}
