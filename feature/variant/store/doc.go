// Package store persists items, their attribute rows and the attribute
// catalog with gorm.
//
// Queries are built from gorm clause expressions and bound parameters.
// Text comparisons that must be case-sensitive are repeated in Go, since
// MySQL collations compare case-insensitively.
//
// Tables:
//
//	items                    templates and variants
//	item_variant_attributes  attribute rows of an item, ordered by idx
//	item_attributes          attribute definitions
//	item_attribute_values    allowed values and abbreviations
package store
