// Package catalog reads the attribute catalog used to validate variant
// attribute values and to derive variant item codes.
//
// A Snapshot groups every attribute value system-wide by owning attribute and
// holds the numeric attribute definitions. Cache keeps one snapshot for the
// process, collapses concurrent loads with singleflight and must be
// invalidated when attribute definitions change (the catalog import does so).
package catalog
