package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"variant-manager/feature/variant/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ListAttributeValues returns every discrete attribute value, grouped by
// attribute in row order.
func (s *Store) ListAttributeValues(ctx context.Context) ([]models.ItemAttributeValue, error) {
	var values []models.ItemAttributeValue
	if err := s.db.WithContext(ctx).Order("parent").Order("idx").Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to list attribute values: %w", err)
	}
	return values, nil
}

// ListNumericAttributes returns the attributes validated by range.
func (s *Store) ListNumericAttributes(ctx context.Context) ([]models.ItemAttribute, error) {
	var attrs []models.ItemAttribute
	err := s.db.WithContext(ctx).
		Where(clause.Eq{Column: "numeric_values", Value: true}).
		Order("name").
		Find(&attrs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list numeric attributes: %w", err)
	}
	return attrs, nil
}

// ListAttributes returns every attribute with its values.
func (s *Store) ListAttributes(ctx context.Context) ([]models.ItemAttribute, error) {
	var attrs []models.ItemAttribute
	err := s.db.WithContext(ctx).
		Preload("Values", orderByIdx).
		Order("name").
		Find(&attrs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}
	return attrs, nil
}

// SaveAttribute inserts or replaces an attribute and its values.
func (s *Store) SaveAttribute(ctx context.Context, attr *models.ItemAttribute) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).Omit("Values").Create(attr).Error
		if err != nil {
			return fmt.Errorf("failed to save attribute %s: %w", attr.Name, err)
		}

		if err := tx.Where(clause.Eq{Column: "parent", Value: attr.Name}).
			Delete(&models.ItemAttributeValue{}).Error; err != nil {
			return fmt.Errorf("failed to clear values of %s: %w", attr.Name, err)
		}
		if len(attr.Values) == 0 {
			return nil
		}

		for i := range attr.Values {
			attr.Values[i].ID = 0
			attr.Values[i].Parent = attr.Name
			attr.Values[i].Idx = i + 1
		}
		if err := tx.Create(&attr.Values).Error; err != nil {
			return fmt.Errorf("failed to save values of %s: %w", attr.Name, err)
		}
		return nil
	})
}

// TemplateHasAttributeValue reports whether the template carries the
// attribute and the attribute defines the value. Both comparisons are exact
// and case-sensitive whatever the database collation.
func (s *Store) TemplateHasAttributeValue(ctx context.Context, templateID, attribute, value string) (bool, error) {
	type row struct {
		Attribute      string
		AttributeValue string
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Table("item_variant_attributes AS iva").
		Select("iva.attribute AS attribute, iav.attribute_value AS attribute_value").
		Joins("INNER JOIN item_attribute_values AS iav ON iav.parent = iva.attribute").
		Where(clause.Eq{Column: clause.Column{Table: "iva", Name: "parent_id"}, Value: templateID}).
		Where(clause.Eq{Column: clause.Column{Table: "iva", Name: "attribute"}, Value: attribute}).
		Where(clause.Eq{Column: clause.Column{Table: "iav", Name: "attribute_value"}, Value: value}).
		Scan(&rows).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s=%s: %w", attribute, value, err)
	}

	for _, r := range rows {
		if r.Attribute == attribute && r.AttributeValue == value {
			return true, nil
		}
	}
	return false, nil
}

// AppendUniqueSuffix returns base when no item uses it as item code, and
// otherwise base followed by "-N", N one above the highest suffix in use.
func (s *Store) AppendUniqueSuffix(ctx context.Context, base string) (string, error) {
	return appendUniqueSuffix(s.db.WithContext(ctx), base)
}

func appendUniqueSuffix(db *gorm.DB, base string) (string, error) {
	var codes []string
	err := db.Model(&models.Item{}).
		Where("item_code = ? OR item_code LIKE ? ESCAPE '!'", base, likeEscaper.Replace(base)+"-%").
		Pluck("item_code", &codes).Error
	if err != nil {
		return "", fmt.Errorf("failed to list item codes like %s: %w", base, err)
	}

	taken := false
	highest := 0
	prefix := base + "-"
	for _, code := range codes {
		if strings.EqualFold(code, base) {
			taken = true
			continue
		}
		if len(code) <= len(prefix) || !strings.EqualFold(code[:len(prefix)], prefix) {
			continue
		}
		if n, err := strconv.Atoi(code[len(prefix):]); err == nil && n > highest {
			highest = n
		}
	}

	if !taken {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, highest+1), nil
}
