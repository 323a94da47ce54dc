package catalog

import (
	"strings"

	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/validate"

	"github.com/shopspring/decimal"
)

// Document is the catalog file exchanged through object storage.
type Document struct {
	Attributes []models.ItemAttribute `json:"attributes"`
	Templates  []Template             `json:"templates"`
}

// Template describes a template item and the attributes its variants use.
type Template struct {
	ItemCode       string          `json:"item_code"`
	ItemName       string          `json:"item_name"`
	ItemGroup      string          `json:"item_group,omitempty"`
	Description    string          `json:"description,omitempty"`
	StockUOM       string          `json:"stock_uom,omitempty"`
	Brand          string          `json:"brand,omitempty"`
	StandardRate   decimal.Decimal `json:"standard_rate"`
	VariantBasedOn string          `json:"variant_based_on,omitempty"`
	Manufacturer   string          `json:"manufacturer,omitempty"`
	Attributes     []string        `json:"attributes"`
}

// TemplateOf converts a stored template item.
func TemplateOf(item *models.Item) Template {
	return Template{
		ItemCode:       item.ItemCode,
		ItemName:       item.ItemName,
		ItemGroup:      item.ItemGroup,
		Description:    item.Description,
		StockUOM:       item.StockUOM,
		Brand:          item.Brand,
		StandardRate:   item.StandardRate,
		VariantBasedOn: item.VariantBasedOn,
		Manufacturer:   item.Manufacturer,
		Attributes:     item.AttributeNames(),
	}
}

// Apply writes the template onto item, replacing its attribute rows.
func (t Template) Apply(item *models.Item) {
	item.ItemCode = t.ItemCode
	item.ItemName = t.ItemName
	item.ItemGroup = t.ItemGroup
	item.Description = t.Description
	item.StockUOM = t.StockUOM
	item.Brand = t.Brand
	item.StandardRate = t.StandardRate
	item.VariantBasedOn = t.VariantBasedOn
	if item.VariantBasedOn == "" {
		item.VariantBasedOn = models.BasedOnItemAttribute
	}
	item.Manufacturer = t.Manufacturer
	item.HasVariants = true

	item.Attributes = item.Attributes[:0]
	for _, name := range t.Attributes {
		item.Attributes = append(item.Attributes, models.ItemVariantAttribute{Attribute: name})
	}
}

// Validate checks the document before anything is written. known lists
// attribute names already stored; templates may refer to them too.
func (d *Document) Validate(known []string) error {
	names := make(map[string]bool, len(d.Attributes)+len(known))
	for _, n := range known {
		names[strings.ToLower(n)] = true
	}

	for i, a := range d.Attributes {
		if strings.TrimSpace(a.Name) == "" {
			return validate.Errorf("Attribute %d has no name", i+1)
		}
		names[strings.ToLower(a.Name)] = true

		if a.NumericValues {
			if a.Increment.IsZero() {
				return &validate.ZeroIncrementError{Attribute: a.Name}
			}
			if a.FromRange.GreaterThan(a.ToRange) {
				return validate.Errorf("From Range %s cannot be greater than To Range %s for Attribute %s",
					a.FromRange, a.ToRange, a.Name)
			}
			continue
		}

		seen := make(map[string]bool, len(a.Values))
		for _, v := range a.Values {
			if v.AttributeValue == "" {
				return validate.Errorf("Attribute %s has an empty value", a.Name)
			}
			if seen[v.AttributeValue] {
				return validate.Errorf("Value %s is repeated for Attribute %s", v.AttributeValue, a.Name)
			}
			seen[v.AttributeValue] = true
		}
	}

	codes := make(map[string]bool, len(d.Templates))
	for i, t := range d.Templates {
		if strings.TrimSpace(t.ItemCode) == "" {
			return validate.Errorf("Template %d has no item code", i+1)
		}
		if codes[strings.ToLower(t.ItemCode)] {
			return validate.Errorf("Template %s is repeated", t.ItemCode)
		}
		codes[strings.ToLower(t.ItemCode)] = true

		switch t.VariantBasedOn {
		case "", models.BasedOnItemAttribute:
			if len(t.Attributes) == 0 {
				return validate.Errorf("Template %s has no attributes", t.ItemCode)
			}
		case models.BasedOnManufacturer:
		default:
			return validate.Errorf("Template %s has unknown variant_based_on %q", t.ItemCode, t.VariantBasedOn)
		}

		attrs := make(map[string]bool, len(t.Attributes))
		for _, name := range t.Attributes {
			key := strings.ToLower(name)
			if !names[key] {
				return validate.Errorf("Attribute %s of Template %s is not defined", name, t.ItemCode)
			}
			if attrs[key] {
				return validate.Errorf("Attribute %s is repeated in Template %s", name, t.ItemCode)
			}
			attrs[key] = true
		}
	}
	return nil
}
