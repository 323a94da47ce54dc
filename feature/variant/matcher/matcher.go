package matcher

import (
	"context"
	"fmt"

	"variant-manager/feature/variant/models"
)

// Shortlister returns the variants of a template that carry at least one of
// the given pairs, with their attribute rows loaded. excludeID is skipped
// when set.
type Shortlister interface {
	ShortlistVariants(ctx context.Context, templateID string, pairs []models.AttributePair, excludeID string) ([]models.Item, error)
}

// Matcher finds the existing variant carrying exactly an assignment.
type Matcher struct {
	source Shortlister
}

// New creates a matcher over the given shortlist source.
func New(source Shortlister) *Matcher {
	return &Matcher{source: source}
}

// Find returns the id of the first shortlisted variant whose attribute rows
// equal the assignment. The shortlist is over-inclusive; the exact filter
// runs in memory. Finding nothing is not an error.
func (m *Matcher) Find(ctx context.Context, templateID string, assignment models.Assignment, excludeID string) (string, bool, error) {
	if len(assignment) == 0 {
		return "", false, nil
	}

	candidates, err := m.source.ShortlistVariants(ctx, templateID, assignment.Pairs(), excludeID)
	if err != nil {
		return "", false, fmt.Errorf("failed to shortlist variants of %s: %w", templateID, err)
	}

	for i := range candidates {
		if Matches(&candidates[i], assignment) {
			return candidates[i].ID, true, nil
		}
	}
	return "", false, nil
}

// Matches reports whether the variant has one row per assignment key and an
// exact, case-sensitive row for every pair.
func Matches(variant *models.Item, assignment models.Assignment) bool {
	if len(variant.Attributes) != len(assignment) {
		return false
	}

	rows := make(map[models.AttributePair]struct{}, len(variant.Attributes))
	for _, row := range variant.Attributes {
		rows[models.AttributePair{Attribute: row.Attribute, Value: row.AttributeValue}] = struct{}{}
	}
	for attribute, value := range assignment {
		if _, ok := rows[models.AttributePair{Attribute: attribute, Value: value}]; !ok {
			return false
		}
	}
	return true
}
