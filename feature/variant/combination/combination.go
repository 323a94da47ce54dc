package combination

import (
	"context"
	"fmt"
	"strings"

	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/validate"
)

const nameSeparator = " - "

// Combination is one tuple of the cartesian product.
type Combination struct {
	ItemName   string   `json:"item_name"`
	Attributes []string `json:"attributes"`
	Values     []string `json:"values"`
}

// Assignment returns the combination as an attribute assignment.
func (c Combination) Assignment() models.Assignment {
	a := make(models.Assignment, len(c.Attributes))
	for i, attribute := range c.Attributes {
		a[attribute] = c.Values[i]
	}
	return a
}

// Checker answers exact (template, attribute, value) membership queries.
type Checker interface {
	TemplateHasAttributeValue(ctx context.Context, templateID, attribute, value string) (bool, error)
}

// Precheck verifies every (attribute, token) pair of the spec against the
// checker. The first unknown pair is reported as an invalid attribute value.
func Precheck(ctx context.Context, checker Checker, template *models.Item, spec Spec) error {
	if len(spec) == 0 {
		return validate.Errorf("Please specify at least one attribute for %s", template.ItemCode)
	}

	for _, a := range spec {
		tokens := SplitValues(a.Values)
		if len(tokens) == 0 {
			return validate.Errorf("Please specify at least one value for Attribute %s", a.Attribute)
		}

		for _, token := range tokens {
			ok, err := checker.TemplateHasAttributeValue(ctx, template.ID, a.Attribute, token)
			if err != nil {
				return fmt.Errorf("failed to check attribute value %s=%s: %w", a.Attribute, token, err)
			}
			if !ok {
				return validate.NewInvalidAttributeValue(a.Attribute, token, template.ItemCode,
					fmt.Sprintf("Value %s for Attribute %s is not a valid Item Attribute Value for Item %s",
						token, a.Attribute, template.ItemCode))
			}
		}
	}
	return nil
}

// Expand returns the cartesian product of the spec. Attributes vary from
// left to right with the last attribute changing fastest.
func Expand(templateName string, spec Spec) []Combination {
	if len(spec) == 0 {
		return nil
	}

	attributes := make([]string, len(spec))
	lists := make([][]string, len(spec))
	for i, a := range spec {
		attributes[i] = a.Attribute
		lists[i] = SplitValues(a.Values)
		if len(lists[i]) == 0 {
			return nil
		}
	}

	total := 1
	for _, l := range lists {
		total *= len(l)
	}

	combos := make([]Combination, 0, total)
	indices := make([]int, len(lists))
	for {
		values := make([]string, len(lists))
		for i, idx := range indices {
			values[i] = lists[i][idx]
		}
		combos = append(combos, Combination{
			ItemName:   itemName(templateName, values),
			Attributes: attributes,
			Values:     values,
		})

		// odometer step
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(lists[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return combos
		}
	}
}

func itemName(templateName string, values []string) string {
	var b strings.Builder
	b.WriteString(templateName)
	for _, v := range values {
		b.WriteString(nameSeparator)
		b.WriteString(v)
	}
	return strings.TrimSuffix(b.String(), nameSeparator)
}
