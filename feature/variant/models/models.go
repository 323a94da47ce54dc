package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Values of Item.VariantBasedOn.
const (
	BasedOnItemAttribute = "Item Attribute"
	BasedOnManufacturer  = "Manufacturer"
)

// Item is a catalog item. Templates have HasVariants set; variants point at
// their template through VariantOf.
type Item struct {
	ID                 string          `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ItemCode           string          `gorm:"column:item_code;type:varchar(140);uniqueIndex;not null" json:"item_code"`
	ItemName           string          `gorm:"column:item_name;type:varchar(140)" json:"item_name"`
	ItemGroup          string          `gorm:"column:item_group;type:varchar(140)" json:"item_group"`
	Description        string          `gorm:"column:description;type:text" json:"description"`
	Brand              string          `gorm:"column:brand;type:varchar(140)" json:"brand"`
	StockUOM           string          `gorm:"column:stock_uom;type:varchar(140)" json:"stock_uom"`
	Image              string          `gorm:"column:image;type:text" json:"image"`
	StandardRate       decimal.Decimal `gorm:"column:standard_rate;type:decimal(21,9)" json:"standard_rate"`
	IsStockItem        bool            `gorm:"column:is_stock_item" json:"is_stock_item"`
	HasBatchNo         bool            `gorm:"column:has_batch_no" json:"has_batch_no"`
	HasSerialNo        bool            `gorm:"column:has_serial_no" json:"has_serial_no"`
	DirectlySaleable   bool            `gorm:"column:directly_saleable" json:"directly_saleable"`
	SyncWithEbay       bool            `gorm:"column:sync_with_ebay" json:"sync_with_ebay"`
	SyncWithEbayTwo    bool            `gorm:"column:sync_with_ebay_two" json:"sync_with_ebay_two"`
	Disabled           bool            `gorm:"column:disabled" json:"disabled"`
	ShowInWebsite      bool            `gorm:"column:show_in_website" json:"show_in_website"`
	Manufacturer       string          `gorm:"column:manufacturer;type:varchar(140)" json:"manufacturer"`
	ManufacturerPartNo string          `gorm:"column:manufacturer_part_no;type:varchar(140)" json:"manufacturer_part_no"`
	OpeningStock       decimal.Decimal `gorm:"column:opening_stock;type:decimal(21,9)" json:"opening_stock"`
	Barcode            string          `gorm:"column:barcode;type:varchar(140)" json:"barcode"`
	HasVariants        bool            `gorm:"column:has_variants" json:"has_variants"`
	VariantOf          string          `gorm:"column:variant_of;type:varchar(36);index" json:"variant_of"`
	VariantBasedOn     string          `gorm:"column:variant_based_on;type:varchar(40)" json:"variant_based_on"`
	CreatedAt          time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at" json:"updated_at"`

	// Attributes holds the attribute rows in display order. On a template the
	// values are empty and only the attribute names matter.
	Attributes []ItemVariantAttribute `gorm:"foreignKey:ParentID;references:ID" json:"attributes"`
}

// TableName overrides the table name.
func (Item) TableName() string {
	return "items"
}

// BeforeCreate assigns a UUID to items saved without one.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// NewItem returns an empty, unsaved item.
func NewItem() *Item {
	return &Item{VariantBasedOn: BasedOnItemAttribute}
}

// IsTemplate reports whether the item defines variants.
func (i *Item) IsTemplate() bool {
	return i.HasVariants
}

// DisplayName returns the item name, or the item code when the name is empty.
func (i *Item) DisplayName() string {
	if i.ItemName != "" {
		return i.ItemName
	}
	return i.ItemCode
}

// AttributeNames returns the attribute names in row order.
func (i *Item) AttributeNames() []string {
	names := make([]string, 0, len(i.Attributes))
	for _, a := range i.Attributes {
		names = append(names, a.Attribute)
	}
	return names
}

// ItemVariantAttribute is one attribute row of an item.
type ItemVariantAttribute struct {
	ID             uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ParentID       string `gorm:"column:parent_id;type:varchar(36);index" json:"-"`
	Idx            int    `gorm:"column:idx" json:"idx"`
	Attribute      string `gorm:"column:attribute;type:varchar(140);index:idx_iva_attribute_value" json:"attribute"`
	AttributeValue string `gorm:"column:attribute_value;type:varchar(140);index:idx_iva_attribute_value" json:"attribute_value"`
}

// TableName overrides the table name.
func (ItemVariantAttribute) TableName() string {
	return "item_variant_attributes"
}

// ItemAttribute defines one variant axis. Numeric attributes are validated
// against FromRange, ToRange and Increment; the others against their Values.
type ItemAttribute struct {
	Name          string          `gorm:"column:name;primaryKey;type:varchar(140)" json:"name"`
	NumericValues bool            `gorm:"column:numeric_values" json:"numeric_values"`
	FromRange     decimal.Decimal `gorm:"column:from_range;type:decimal(21,9)" json:"from_range"`
	ToRange       decimal.Decimal `gorm:"column:to_range;type:decimal(21,9)" json:"to_range"`
	Increment     decimal.Decimal `gorm:"column:increment;type:decimal(21,9)" json:"increment"`

	Values []ItemAttributeValue `gorm:"foreignKey:Parent;references:Name" json:"values,omitempty"`
}

// TableName overrides the table name.
func (ItemAttribute) TableName() string {
	return "item_attributes"
}

// ItemAttributeValue is one allowed value of a discrete attribute together
// with the abbreviation used in variant item codes.
type ItemAttributeValue struct {
	ID             uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Parent         string `gorm:"column:parent;type:varchar(140);index" json:"-"`
	Idx            int    `gorm:"column:idx" json:"-"`
	AttributeValue string `gorm:"column:attribute_value;type:varchar(140)" json:"value"`
	Abbr           string `gorm:"column:abbr;type:varchar(140)" json:"abbr"`
}

// TableName overrides the table name.
func (ItemAttributeValue) TableName() string {
	return "item_attribute_values"
}

// All lists every model owned by the variant feature, in migration order.
func All() []any {
	return []any{&ItemAttribute{}, &ItemAttributeValue{}, &Item{}, &ItemVariantAttribute{}}
}
