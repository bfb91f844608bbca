package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RangeError reports a numeric field outside its permitted bounds.
// Handlers recover from it locally by rejecting the field.
type RangeError struct {
	Field string
	Min   decimal.Decimal
	Max   decimal.Decimal
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %s and %s", e.Field, e.Min, e.Max)
}

// ValueRequiredError reports a missing value on a field that the chosen
// entry kind makes mandatory.
type ValueRequiredError struct {
	Field string
}

func (e *ValueRequiredError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
