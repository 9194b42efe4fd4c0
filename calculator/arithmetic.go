// Package calculator holds the decimal-safe money arithmetic shared by reports,
// the realtime publisher and exports.
//
// Every result is quantized to 2 fractional digits after each binary step, so chained
// operations on inputs with more precision reproduce the same totals the books show.
package calculator

import "github.com/shopspring/decimal"

const Places int32 = 2

func quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Add sums values left to right, rounding after every addition. Unparsable values count as 0.
func Add(values ...any) decimal.Decimal {
	result := zero
	for _, v := range values {
		result = quantize(result.Add(lenient("Add", v, zero)))
	}
	return quantize(result)
}

// Subtract seeds the result with the first operand and subtracts the rest in order.
func Subtract(values ...any) decimal.Decimal {
	if len(values) == 0 {
		return quantize(zero)
	}
	result := quantize(lenient("Subtract", values[0], zero))
	for _, v := range values[1:] {
		result = quantize(result.Sub(lenient("Subtract", v, zero)))
	}
	return result
}

// Multiply multiplies values in order; unparsable values are the identity 1.
func Multiply(values ...any) decimal.Decimal {
	result := one
	for _, v := range values {
		result = quantize(result.Mul(lenient("Multiply", v, one)))
	}
	return quantize(result)
}

func Divide(dividend, divisor any) (decimal.Decimal, error) {
	a := lenient("Divide", dividend, zero)
	b := lenient("Divide", divisor, zero)
	if b.IsZero() {
		return zero, &DivisionByZeroError{Dividend: a}
	}
	return a.DivRound(b, Places), nil
}

// Round quantizes a single value to 2 places (half away from zero).
func Round(value any) decimal.Decimal {
	return quantize(lenient("Round", value, zero))
}
