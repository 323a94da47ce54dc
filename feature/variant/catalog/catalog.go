package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"variant-manager/feature/variant/models"

	"github.com/shopspring/decimal"
)

// NumericDef is the range specification of a numeric attribute.
type NumericDef struct {
	Attribute string
	FromRange decimal.Decimal
	ToRange   decimal.Decimal
	Increment decimal.Decimal
}

// Source provides the raw attribute catalog.
type Source interface {
	ListAttributeValues(ctx context.Context) ([]models.ItemAttributeValue, error)
	ListNumericAttributes(ctx context.Context) ([]models.ItemAttribute, error)
}

// Snapshot is the attribute catalog at one point in time. Attribute names
// are keyed in lower case; values keep their case.
type Snapshot struct {
	// Values lists the allowed values per attribute.
	Values map[string][]string
	// Numeric holds the numeric attribute definitions.
	Numeric map[string]NumericDef
	// Built is when the snapshot was read.
	Built time.Time

	abbrs map[string]map[string]string
}

// Read loads a fresh snapshot from the source.
func Read(ctx context.Context, src Source) (*Snapshot, error) {
	values, err := src.ListAttributeValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attribute values: %w", err)
	}
	numeric, err := src.ListNumericAttributes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load numeric attributes: %w", err)
	}

	snap := &Snapshot{
		Values:  make(map[string][]string),
		Numeric: make(map[string]NumericDef, len(numeric)),
		Built:   time.Now(),
		abbrs:   make(map[string]map[string]string),
	}

	for _, v := range values {
		key := strings.ToLower(v.Parent)
		snap.Values[key] = append(snap.Values[key], v.AttributeValue)
		if snap.abbrs[key] == nil {
			snap.abbrs[key] = make(map[string]string)
		}
		if _, seen := snap.abbrs[key][v.AttributeValue]; !seen {
			snap.abbrs[key][v.AttributeValue] = v.Abbr
		}
	}

	for _, a := range numeric {
		snap.Numeric[strings.ToLower(a.Name)] = NumericDef{
			Attribute: a.Name,
			FromRange: a.FromRange,
			ToRange:   a.ToRange,
			Increment: a.Increment,
		}
	}

	return snap, nil
}

// NumericDef returns the numeric definition of an attribute, if any.
func (s *Snapshot) NumericDef(attribute string) (NumericDef, bool) {
	def, ok := s.Numeric[strings.ToLower(attribute)]
	return def, ok
}

// AllowedValues returns the discrete values of an attribute.
func (s *Snapshot) AllowedValues(attribute string) []string {
	return s.Values[strings.ToLower(attribute)]
}

// Fragment returns the item code fragment for an attribute value: the value
// itself for numeric attributes, the configured abbreviation otherwise.
// It reports false when no fragment can be resolved.
func (s *Snapshot) Fragment(attribute, value string) (string, bool) {
	if _, ok := s.NumericDef(attribute); ok {
		return value, true
	}
	abbr, ok := s.abbrs[strings.ToLower(attribute)][value]
	if !ok || abbr == "" {
		return "", false
	}
	return abbr, true
}

// Stats summarizes the snapshot.
type Stats struct {
	Attributes        int       `json:"attributes"`
	NumericAttributes int       `json:"numeric_attributes"`
	Values            int       `json:"values"`
	Built             time.Time `json:"built"`
}

// Stats returns counts for status reports.
func (s *Snapshot) Stats() Stats {
	keys := make(map[string]struct{}, len(s.Values)+len(s.Numeric))
	st := Stats{NumericAttributes: len(s.Numeric), Built: s.Built}
	for key, vals := range s.Values {
		keys[key] = struct{}{}
		st.Values += len(vals)
	}
	for key := range s.Numeric {
		keys[key] = struct{}{}
	}
	st.Attributes = len(keys)
	return st
}
