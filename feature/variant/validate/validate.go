package validate

import (
	"fmt"
	"strings"

	"variant-manager/feature/variant/catalog"
	"variant-manager/feature/variant/models"

	"github.com/shopspring/decimal"
)

// Numeric checks that value lies in [FromRange, ToRange] and sits on an
// increment step counted from FromRange.
func Numeric(def catalog.NumericDef, attribute, value, item string) error {
	if def.Increment.IsZero() {
		return &ZeroIncrementError{Attribute: attribute}
	}

	raw := strings.TrimSpace(value)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return NewInvalidAttributeValue(attribute, value, item,
			fmt.Sprintf("Value %s for Attribute %s is not a number for Item %s", value, attribute, item))
	}

	inRange := v.GreaterThanOrEqual(def.FromRange) && v.LessThanOrEqual(def.ToRange)

	// Round the remainder to the precision of the inputs so representation
	// noise never decides the outcome.
	precision := max(decimalPlaces(raw), decimalPlaces(def.Increment.String()))
	remainder := v.Sub(def.FromRange).Mod(def.Increment).Round(int32(precision))
	onStep := remainder.IsZero() || remainder.Equal(def.Increment)

	if !(inRange && onStep) {
		return NewInvalidAttributeValue(attribute, value, item,
			fmt.Sprintf("Value for Attribute %s must be within the range of %s to %s in the increments of %s for Item %s",
				attribute, def.FromRange, def.ToRange, def.Increment, item))
	}
	return nil
}

// Discrete checks that value is one of the allowed values (exact match).
func Discrete(allowed []string, attribute, value, item string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return NewInvalidAttributeValue(attribute, value, item,
		fmt.Sprintf("Value %s for Attribute %s does not exist in the list of valid Item Attribute Values for Item %s (valid values: %s)",
			value, attribute, item, strings.Join(allowed, ", ")))
}

// Assignment validates every non-empty value of the assignment against the
// catalog. Numeric attributes take precedence over discrete values of the
// same name.
func Assignment(snap *catalog.Snapshot, item string, assignment models.Assignment) error {
	for _, attribute := range assignment.Keys() {
		value := assignment[attribute]
		if value == "" {
			continue
		}

		if def, ok := snap.NumericDef(attribute); ok {
			if err := Numeric(def, attribute, value, item); err != nil {
				return err
			}
			continue
		}

		if err := Discrete(snap.AllowedValues(attribute), attribute, value, item); err != nil {
			return err
		}
	}
	return nil
}

// decimalPlaces counts the digits after the decimal point, ignoring
// trailing zeros.
func decimalPlaces(s string) int {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return 0
	}
	return len(strings.TrimRight(s[idx+1:], "0"))
}

// Attributes checks that every assignment key names one of the template
// attributes, ignoring case.
func Attributes(names []string, item string, assignment models.Assignment) error {
	for _, attribute := range assignment.Keys() {
		known := false
		for _, name := range names {
			if strings.EqualFold(name, attribute) {
				known = true
				break
			}
		}
		if !known {
			return NewInvalidAttributeValue(attribute, assignment[attribute], item,
				fmt.Sprintf("Attribute %s is not an attribute of Item %s (attributes: %s)",
					attribute, item, strings.Join(names, ", ")))
		}
	}
	return nil
}
