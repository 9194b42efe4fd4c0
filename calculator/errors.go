package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrDivisionByZero = errors.New("division by zero")

// DivisionByZeroError is returned by Divide when the divisor resolves to 0.
type DivisionByZeroError struct {
	Dividend decimal.Decimal
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: %s / 0", ErrDivisionByZero.Error(), e.Dividend.String())
}

func (e *DivisionByZeroError) Unwrap() error {
	return ErrDivisionByZero
}
