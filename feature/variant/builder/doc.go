// Package builder constructs unsaved variants from a template.
//
// Template fields are copied through models.ItemFields: child tables,
// no-copy fields and identity fields stay behind, and manufacturer-based
// templates also keep their manufacturer fields. The variant item code is
// the template code followed by one fragment per attribute, the value for
// numeric attributes and the abbreviation for the others:
//
//	TMPL + {Color: Red (RD), Size: 42} -> TMPL-RD-42
//
// When any fragment is missing the item code is left empty for the store to
// assign.
package builder
