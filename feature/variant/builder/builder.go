package builder

import (
	"strings"

	"variant-manager/feature/variant/models"

	"go.uber.org/zap"
)

// AbbreviationSource resolves the item code fragment of an attribute value.
type AbbreviationSource interface {
	Fragment(attribute, value string) (string, bool)
}

// identityFields are never copied from a template.
var identityFields = map[string]bool{
	"item_code":       true,
	"item_name":       true,
	"show_in_website": true,
}

// manufacturerFields are not copied when variants are based on manufacturer.
var manufacturerFields = map[string]bool{
	"manufacturer":         true,
	"manufacturer_part_no": true,
}

// Builder constructs unsaved variants of a template.
type Builder struct {
	abbr   AbbreviationSource
	logger *zap.Logger
}

// New creates a builder resolving item code fragments through abbr.
func New(abbr AbbreviationSource, logger *zap.Logger) *Builder {
	return &Builder{abbr: abbr, logger: logger}
}

// Create builds a variant carrying one attribute row per template attribute.
// Attributes missing from the assignment get an empty value.
func (b *Builder) Create(template *models.Item, assignment models.Assignment) *models.Item {
	variant := models.NewItem()
	variant.VariantBasedOn = models.BasedOnItemAttribute

	for i, name := range template.AttributeNames() {
		value, _ := assignment.Lookup(name)
		variant.Attributes = append(variant.Attributes, models.ItemVariantAttribute{
			Idx:            i + 1,
			Attribute:      name,
			AttributeValue: value,
		})
	}

	CopyFields(template, variant)

	if missing, ok := DeriveItemCode(template, variant, b.abbr); !ok && missing != "" {
		b.logger.Warn("Skipping item code derivation, attribute value has no abbreviation",
			zap.String("template", template.ItemCode),
			zap.String("attribute", missing),
		)
	}
	return variant
}

// CreateForManufacturer builds a variant identified by manufacturer and part
// number. itemCode must already be unique.
func (b *Builder) CreateForManufacturer(template *models.Item, manufacturer, partNo, itemCode string) *models.Item {
	variant := models.NewItem()

	CopyFields(template, variant)

	variant.Manufacturer = manufacturer
	variant.ManufacturerPartNo = partNo
	variant.ItemCode = itemCode
	return variant
}

// CopyFields copies the copyable template fields onto the variant and links
// it to the template. Attribute-based variants get their attribute rows
// appended to the description.
func CopyFields(template, variant *models.Item) {
	basedOnManufacturer := template.VariantBasedOn == models.BasedOnManufacturer

	for _, f := range models.ItemFields {
		if !f.Copyable() || identityFields[f.Name] {
			continue
		}
		if basedOnManufacturer && manufacturerFields[f.Name] {
			continue
		}
		if f.Differs(variant, template) {
			f.CopyTo(variant, template)
		}
	}

	variant.VariantOf = template.ID
	variant.HasVariants = false

	if template.VariantBasedOn == models.BasedOnItemAttribute && len(variant.Attributes) > 0 {
		var b strings.Builder
		b.WriteString(variant.Description)
		b.WriteString("\n")
		for _, row := range variant.Attributes {
			b.WriteString("<p>")
			b.WriteString(row.Attribute)
			b.WriteString(": ")
			b.WriteString(row.AttributeValue)
			b.WriteString("</p>")
		}
		variant.Description = b.String()
	}
}

// DeriveItemCode sets the variant item code and name from the template's and
// the attribute fragments. It leaves the variant untouched when an item code
// is already set, or when an attribute has no fragment; in the latter case
// the attribute is returned.
func DeriveItemCode(template, variant *models.Item, abbr AbbreviationSource) (string, bool) {
	if variant.ItemCode != "" || len(variant.Attributes) == 0 {
		return "", false
	}

	fragments := make([]string, 0, len(variant.Attributes))
	for _, row := range variant.Attributes {
		fragment, ok := abbr.Fragment(row.Attribute, row.AttributeValue)
		if !ok {
			return row.Attribute, false
		}
		fragments = append(fragments, fragment)
	}

	suffix := strings.Join(fragments, "-")
	variant.ItemCode = template.ItemCode + "-" + suffix
	// A template without a name lends its item code, so the name repeats the code.
	variant.ItemName = template.DisplayName() + "-" + suffix
	return "", true
}
