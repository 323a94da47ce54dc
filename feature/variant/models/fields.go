package models

import "github.com/shopspring/decimal"

// FieldType describes how an item field is stored.
type FieldType string

const (
	FieldData     FieldType = "Data"
	FieldText     FieldType = "Text Editor"
	FieldLink     FieldType = "Link"
	FieldSelect   FieldType = "Select"
	FieldCheck    FieldType = "Check"
	FieldCurrency FieldType = "Currency"
	FieldFloat    FieldType = "Float"
	FieldImage    FieldType = "Attach Image"
	FieldTable    FieldType = "Table"
)

// HasValue reports whether fields of this type hold a value of their own.
// Child tables do not; their rows are owned by the parent.
func (t FieldType) HasValue() bool {
	return t != FieldTable
}

// Field is one entry of the item schema used when copying a template onto a
// variant. Accessors are bound at compile time.
type Field struct {
	Name   string
	Type   FieldType
	NoCopy bool

	differs func(dst, src *Item) bool
	copy    func(dst, src *Item)
}

// Copyable reports whether the field may be copied from a template.
func (f Field) Copyable() bool {
	return f.Type.HasValue() && !f.NoCopy && f.copy != nil
}

// Differs reports whether dst and src hold different values for the field.
func (f Field) Differs(dst, src *Item) bool {
	if f.differs == nil {
		return false
	}
	return f.differs(dst, src)
}

// CopyTo sets the field on dst to the value held by src.
func (f Field) CopyTo(dst, src *Item) {
	if f.copy != nil {
		f.copy(dst, src)
	}
}

func valueField[T comparable](name string, typ FieldType, noCopy bool, ref func(*Item) *T) Field {
	return Field{
		Name:    name,
		Type:    typ,
		NoCopy:  noCopy,
		differs: func(dst, src *Item) bool { return *ref(dst) != *ref(src) },
		copy:    func(dst, src *Item) { *ref(dst) = *ref(src) },
	}
}

func decimalField(name string, typ FieldType, noCopy bool, ref func(*Item) *decimal.Decimal) Field {
	return Field{
		Name:    name,
		Type:    typ,
		NoCopy:  noCopy,
		differs: func(dst, src *Item) bool { return !ref(dst).Equal(*ref(src)) },
		copy:    func(dst, src *Item) { *ref(dst) = *ref(src) },
	}
}

// ItemFields is the item schema, in form order.
var ItemFields = []Field{
	valueField("item_code", FieldData, false, func(i *Item) *string { return &i.ItemCode }),
	valueField("item_name", FieldData, false, func(i *Item) *string { return &i.ItemName }),
	valueField("item_group", FieldLink, false, func(i *Item) *string { return &i.ItemGroup }),
	valueField("stock_uom", FieldLink, false, func(i *Item) *string { return &i.StockUOM }),
	valueField("disabled", FieldCheck, false, func(i *Item) *bool { return &i.Disabled }),
	valueField("is_stock_item", FieldCheck, false, func(i *Item) *bool { return &i.IsStockItem }),
	decimalField("opening_stock", FieldFloat, true, func(i *Item) *decimal.Decimal { return &i.OpeningStock }),
	decimalField("standard_rate", FieldCurrency, false, func(i *Item) *decimal.Decimal { return &i.StandardRate }),
	valueField("image", FieldImage, false, func(i *Item) *string { return &i.Image }),
	valueField("brand", FieldLink, false, func(i *Item) *string { return &i.Brand }),
	valueField("description", FieldText, false, func(i *Item) *string { return &i.Description }),
	valueField("barcode", FieldData, true, func(i *Item) *string { return &i.Barcode }),
	valueField("has_batch_no", FieldCheck, false, func(i *Item) *bool { return &i.HasBatchNo }),
	valueField("has_serial_no", FieldCheck, false, func(i *Item) *bool { return &i.HasSerialNo }),
	valueField("directly_saleable", FieldCheck, false, func(i *Item) *bool { return &i.DirectlySaleable }),
	valueField("sync_with_ebay", FieldCheck, false, func(i *Item) *bool { return &i.SyncWithEbay }),
	valueField("sync_with_ebay_two", FieldCheck, false, func(i *Item) *bool { return &i.SyncWithEbayTwo }),
	valueField("has_variants", FieldCheck, true, func(i *Item) *bool { return &i.HasVariants }),
	valueField("variant_of", FieldLink, true, func(i *Item) *string { return &i.VariantOf }),
	valueField("variant_based_on", FieldSelect, false, func(i *Item) *string { return &i.VariantBasedOn }),
	{Name: "attributes", Type: FieldTable},
	valueField("manufacturer", FieldLink, false, func(i *Item) *string { return &i.Manufacturer }),
	valueField("manufacturer_part_no", FieldData, false, func(i *Item) *string { return &i.ManufacturerPartNo }),
	valueField("show_in_website", FieldCheck, false, func(i *Item) *bool { return &i.ShowInWebsite }),
}
