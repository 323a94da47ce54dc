package validate

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every validation failure.
var ErrValidation = errors.New("validation error")

// ErrInvalidAttributeValue marks values rejected by an attribute definition.
var ErrInvalidAttributeValue = fmt.Errorf("%w: invalid attribute value", ErrValidation)

// ErrZeroIncrement marks numeric attributes configured with a zero increment.
var ErrZeroIncrement = fmt.Errorf("%w: zero increment", ErrValidation)

// InvalidAttributeValueError names the attribute and value that failed.
type InvalidAttributeValueError struct {
	Attribute string
	Value     string
	Item      string
	msg       string
}

func (e *InvalidAttributeValueError) Error() string {
	return e.msg
}

func (e *InvalidAttributeValueError) Unwrap() error {
	return ErrInvalidAttributeValue
}

// NewInvalidAttributeValue builds an InvalidAttributeValueError with a
// display message.
func NewInvalidAttributeValue(attribute, value, item, msg string) *InvalidAttributeValueError {
	return &InvalidAttributeValueError{Attribute: attribute, Value: value, Item: item, msg: msg}
}

// ZeroIncrementError is returned instead of dividing by a zero increment.
type ZeroIncrementError struct {
	Attribute string
}

func (e *ZeroIncrementError) Error() string {
	return fmt.Sprintf("Increment for Attribute %s cannot be 0", e.Attribute)
}

func (e *ZeroIncrementError) Unwrap() error {
	return ErrZeroIncrement
}

// Errorf returns a generic validation error with a display message.
func Errorf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }
