package calculator

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/shopspring/decimal"
)

// Decimaler is implemented by value types that already carry a decimal, e.g. models.Amount.
type Decimaler interface {
	Decimal() decimal.Decimal
}

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Coerce converts value to a decimal. ok is false when value was missing or unparsable,
// in which case fallback is returned.
func Coerce(value any, fallback decimal.Decimal) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case nil:
		return fallback, false
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return fallback, false
		}
		return *v, true
	case Decimaler:
		return v.Decimal(), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int8:
		return decimal.NewFromInt(int64(v)), true
	case int16:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint:
		return fromUint64(uint64(v)), true
	case uint8:
		return decimal.NewFromInt(int64(v)), true
	case uint16:
		return decimal.NewFromInt(int64(v)), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	case uint64:
		return fromUint64(v), true
	case float32:
		return coerceFloat(float64(v), fallback)
	case float64:
		return coerceFloat(v, fallback)
	case json.Number:
		return coerceString(v.String(), fallback)
	case string:
		return coerceString(v, fallback)
	default:
		return fallback, false
	}
}

// fromUint64 goes through big.Int so values above MaxInt64 keep their sign.
func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

func coerceFloat(f float64, fallback decimal.Decimal) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback, false
	}
	return decimal.NewFromFloat(f), true
}

func coerceString(s string, fallback decimal.Decimal) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fallback, false
	}
	return d, true
}

// lenient coerces value and logs a MalformedInputWarning when the fallback is used.
// A nil value is treated as a legitimately empty field and is not logged.
func lenient(funcName string, value any, fallback decimal.Decimal) decimal.Decimal {
	d, ok := Coerce(value, fallback)
	if !ok && value != nil {
		config.LogWarning(config.GetLogger(), "Calculator", funcName, "malformed numeric input coerced to default", map[string]any{
			"value":    value,
			"fallback": fallback.String(),
		})
	}
	return d
}
