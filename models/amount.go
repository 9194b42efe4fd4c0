package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/calculator"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/shopspring/decimal"
)

// Amount is a numeric field coming from partially filled forms or loosely typed exports.
// It never fails to decode: numbers, numeric strings and formatted currency strings are
// accepted, null/missing is 0, and anything else is logged and treated as 0.
type Amount struct {
	value decimal.Decimal
}

func NewAmount(v any) Amount {
	d, _ := calculator.Coerce(v, decimal.Zero)
	return Amount{value: d}
}

func AmountFromString(s string) Amount {
	return Amount{value: decimal.RequireFromString(s)}
}

func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

func (a Amount) String() string {
	return a.value.String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return a.value.MarshalJSON()
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.value = decimal.Zero
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.value = decimal.Zero
			logMalformed(string(data))
			return nil
		}
		if d, ok := calculator.Coerce(s, decimal.Zero); ok {
			a.value = d
			return nil
		}
		if s == "" {
			a.value = decimal.Zero
			return nil
		}
		// "৳ 1,250.00" and friends
		a.value = calculator.FromMajorMinor(s)
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		a.value = decimal.Zero
		logMalformed(string(data))
		return nil
	}
	a.value = d
	return nil
}

// Scan implements sql.Scanner; NULL columns become 0.
func (a *Amount) Scan(value interface{}) error {
	if value == nil {
		a.value = decimal.Zero
		return nil
	}
	return a.value.Scan(value)
}

func (a Amount) Value() (driver.Value, error) {
	return a.value.Value()
}

func logMalformed(raw string) {
	config.LogWarning(config.GetLogger(), "Models", "Amount.UnmarshalJSON", "malformed amount coerced to 0", raw)
}
