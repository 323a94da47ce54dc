package catalog

import (
	"context"
	"fmt"
	"strings"

	"variant-manager/core/reconcile"
	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/store"

	"github.com/shopspring/decimal"
)

// attributeAdapter reconciles stored attributes with a document's.
type attributeAdapter struct {
	doc   *Document
	store *store.Store
}

func (a *attributeAdapter) Name() string { return "attributes" }

func (a *attributeAdapter) LoadDBIndex(ctx context.Context) (map[string]reconcile.Entity, error) {
	attrs, err := a.store.ListAttributes(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]reconcile.Entity, len(attrs))
	for i := range attrs {
		idx[strings.ToLower(attrs[i].Name)] = &attrs[i]
	}
	return idx, nil
}

func (a *attributeAdapter) LoadDocumentIndex(ctx context.Context) (map[string]reconcile.Entity, error) {
	idx := make(map[string]reconcile.Entity, len(a.doc.Attributes))
	for i := range a.doc.Attributes {
		idx[strings.ToLower(a.doc.Attributes[i].Name)] = &a.doc.Attributes[i]
	}
	return idx, nil
}

func (a *attributeAdapter) ResolveName(dbItem, docItem reconcile.Entity) string {
	if attr, ok := docItem.(*models.ItemAttribute); ok {
		return attr.Name
	}
	if attr, ok := dbItem.(*models.ItemAttribute); ok {
		return attr.Name
	}
	return ""
}

func (a *attributeAdapter) CompareFields(dbItem, docItem reconcile.Entity) []string {
	db := dbItem.(*models.ItemAttribute)
	doc := docItem.(*models.ItemAttribute)

	var diff []string
	if db.NumericValues != doc.NumericValues {
		diff = append(diff, fmt.Sprintf("numeric_values: doc=%t db=%t", doc.NumericValues, db.NumericValues))
	}
	if db.NumericValues || doc.NumericValues {
		diff = appendDecimal(diff, "from_range", doc.FromRange, db.FromRange)
		diff = appendDecimal(diff, "to_range", doc.ToRange, db.ToRange)
		diff = appendDecimal(diff, "increment", doc.Increment, db.Increment)
		return diff
	}

	stored := make(map[string]string, len(db.Values))
	for _, v := range db.Values {
		stored[v.AttributeValue] = v.Abbr
	}
	listed := make(map[string]bool, len(doc.Values))
	for _, v := range doc.Values {
		listed[v.AttributeValue] = true
		abbr, ok := stored[v.AttributeValue]
		switch {
		case !ok:
			diff = append(diff, fmt.Sprintf("value[%s]: missing in db", v.AttributeValue))
		case abbr != v.Abbr:
			diff = append(diff, fmt.Sprintf("abbr[%s]: doc=%s db=%s", v.AttributeValue, v.Abbr, abbr))
		}
	}
	for _, v := range db.Values {
		if !listed[v.AttributeValue] {
			diff = append(diff, fmt.Sprintf("value[%s]: missing in document", v.AttributeValue))
		}
	}
	return diff
}

// templateAdapter reconciles stored templates with a document's.
type templateAdapter struct {
	doc   *Document
	store *store.Store
}

func (a *templateAdapter) Name() string { return "templates" }

func (a *templateAdapter) LoadDBIndex(ctx context.Context) (map[string]reconcile.Entity, error) {
	templates, err := a.store.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]reconcile.Entity, len(templates))
	for i := range templates {
		t := TemplateOf(&templates[i])
		idx[strings.ToLower(t.ItemCode)] = t
	}
	return idx, nil
}

// LoadDocumentIndex normalizes each template the way Import would store it.
func (a *templateAdapter) LoadDocumentIndex(ctx context.Context) (map[string]reconcile.Entity, error) {
	idx := make(map[string]reconcile.Entity, len(a.doc.Templates))
	for _, t := range a.doc.Templates {
		item := models.NewItem()
		t.Apply(item)
		idx[strings.ToLower(t.ItemCode)] = TemplateOf(item)
	}
	return idx, nil
}

func (a *templateAdapter) ResolveName(dbItem, docItem reconcile.Entity) string {
	if t, ok := docItem.(Template); ok {
		return t.ItemCode
	}
	if t, ok := dbItem.(Template); ok {
		return t.ItemCode
	}
	return ""
}

func (a *templateAdapter) CompareFields(dbItem, docItem reconcile.Entity) []string {
	db := dbItem.(Template)
	doc := docItem.(Template)

	var diff []string
	fields := []struct {
		label   string
		doc, db string
	}{
		{"item_name", doc.ItemName, db.ItemName},
		{"item_group", doc.ItemGroup, db.ItemGroup},
		{"description", doc.Description, db.Description},
		{"stock_uom", doc.StockUOM, db.StockUOM},
		{"brand", doc.Brand, db.Brand},
		{"variant_based_on", doc.VariantBasedOn, db.VariantBasedOn},
		{"manufacturer", doc.Manufacturer, db.Manufacturer},
		{"attributes", strings.Join(doc.Attributes, ","), strings.Join(db.Attributes, ",")},
	}
	for _, f := range fields {
		if f.doc != f.db {
			diff = append(diff, fmt.Sprintf("%s: doc=%s db=%s", f.label, f.doc, f.db))
		}
	}
	return appendDecimal(diff, "standard_rate", doc.StandardRate, db.StandardRate)
}

func appendDecimal(diff []string, label string, doc, db decimal.Decimal) []string {
	if !doc.Equal(db) {
		diff = append(diff, fmt.Sprintf("%s: doc=%s db=%s", label, doc, db))
	}
	return diff
}
