package calculator

import "github.com/shopspring/decimal"

// ratioPrecision is the scale intermediate ratios are carried at before the final rounding.
const ratioPrecision int32 = 16

// Percentage returns part as a percentage of total, or 0 when total is 0.
func Percentage(part, total any) decimal.Decimal {
	p := lenient("Percentage", part, zero)
	t := lenient("Percentage", total, zero)
	if t.IsZero() {
		return quantize(zero)
	}
	return quantize(p.DivRound(t, ratioPrecision).Mul(hundred))
}

// Margin is gross profit as a percentage of the selling price.
// Zero cost is a 100% margin; a zero selling price with a non-zero cost yields 0.
func Margin(costPrice, sellPrice any) decimal.Decimal {
	cost := lenient("Margin", costPrice, zero)
	sell := lenient("Margin", sellPrice, zero)
	if cost.IsZero() {
		return quantize(hundred)
	}
	if sell.IsZero() {
		return quantize(zero)
	}
	return quantize(sell.Sub(cost).DivRound(sell, ratioPrecision).Mul(hundred))
}

// Markup is profit as a percentage of the cost price. Zero cost yields 0.
func Markup(costPrice, sellPrice any) decimal.Decimal {
	cost := lenient("Markup", costPrice, zero)
	sell := lenient("Markup", sellPrice, zero)
	if cost.IsZero() {
		return quantize(zero)
	}
	return quantize(sell.Sub(cost).DivRound(cost, ratioPrecision).Mul(hundred))
}

// Tax is amount * rate/100.
func Tax(amount, rate any) decimal.Decimal {
	return rateOf("Tax", amount, rate)
}

// Discount uses the same formula as Tax.
func Discount(amount, rate any) decimal.Decimal {
	return rateOf("Discount", amount, rate)
}

// TaxInclusive extracts the tax already contained in a tax-inclusive amount:
// amount / (100 + rate) * rate.
func TaxInclusive(amount, rate any) decimal.Decimal {
	a := lenient("TaxInclusive", amount, zero)
	r := lenient("TaxInclusive", rate, zero)
	base := hundred.Add(r)
	if base.IsZero() {
		return quantize(zero)
	}
	return quantize(a.DivRound(base, ratioPrecision).Mul(r))
}

func rateOf(funcName string, amount, rate any) decimal.Decimal {
	a := lenient(funcName, amount, zero)
	r := lenient(funcName, rate, zero)
	return quantize(a.Mul(r).Div(hundred))
}
