package variant

import (
	"errors"
	"fmt"

	"variant-manager/feature/variant/validate"
)

// ErrVariantExists is returned when a variant with the same attributes
// already exists.
var ErrVariantExists = errors.New("item variant exists with same attributes")

// ErrNotTemplate is returned when variants are requested for an item that
// does not define any.
var ErrNotTemplate = fmt.Errorf("%w: item is not a template", validate.ErrValidation)

func variantExists(code string) error {
	return fmt.Errorf("%w: %s", ErrVariantExists, code)
}
