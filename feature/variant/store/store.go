package store

import (
	"context"
	"errors"
	"fmt"

	"variant-manager/feature/variant/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a referenced item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an item code is already taken.
	ErrDuplicate = errors.New("duplicate item code")
)

// Store persists items and the attribute catalog through gorm.
type Store struct {
	db *gorm.DB
}

// New creates a store over the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the tables owned by the store.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate item tables: %w", err)
	}
	return nil
}

func orderByIdx(db *gorm.DB) *gorm.DB {
	return db.Order("idx")
}

// GetItem loads an item by id or item code, with its attribute rows.
func (s *Store) GetItem(ctx context.Context, ref string) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).
		Preload("Attributes", orderByIdx).
		Where(clause.Or(
			clause.Eq{Column: "id", Value: ref},
			clause.Eq{Column: "item_code", Value: ref},
		)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %s: %w", ref, err)
	}
	return &item, nil
}

// ItemExists returns the id of the item with the given item code.
func (s *Store) ItemExists(ctx context.Context, itemCode string) (string, bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where(clause.Eq{Column: "item_code", Value: itemCode}).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", false, fmt.Errorf("failed to look up item %s: %w", itemCode, err)
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

// SaveItem creates or updates an item and replaces its attribute rows.
// Variants saved without an item code are named after their template with a
// unique numeric suffix.
func (s *Store) SaveItem(ctx context.Context, item *models.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if item.ItemCode == "" {
			if item.VariantOf == "" {
				return fmt.Errorf("item code is required")
			}
			var codes []string
			if err := tx.Model(&models.Item{}).
				Where(clause.Eq{Column: "id", Value: item.VariantOf}).
				Pluck("item_code", &codes).Error; err != nil {
				return fmt.Errorf("failed to load template %s: %w", item.VariantOf, err)
			}
			if len(codes) == 0 {
				return fmt.Errorf("template %s: %w", item.VariantOf, ErrNotFound)
			}
			code, err := appendUniqueSuffix(tx, codes[0])
			if err != nil {
				return err
			}
			item.ItemCode = code
			if item.ItemName == "" {
				item.ItemName = code
			}
		}

		for i := range item.Attributes {
			item.Attributes[i].ID = 0
			item.Attributes[i].Idx = i + 1
		}

		if item.ID == "" {
			if err := tx.Create(item).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("item %s: %w", item.ItemCode, ErrDuplicate)
				}
				return fmt.Errorf("failed to create item %s: %w", item.ItemCode, err)
			}
			return nil
		}

		if err := tx.Omit("Attributes").Save(item).Error; err != nil {
			return fmt.Errorf("failed to save item %s: %w", item.ItemCode, err)
		}
		if err := tx.Where(clause.Eq{Column: "parent_id", Value: item.ID}).
			Delete(&models.ItemVariantAttribute{}).Error; err != nil {
			return fmt.Errorf("failed to clear attributes of %s: %w", item.ItemCode, err)
		}
		if len(item.Attributes) == 0 {
			return nil
		}
		for i := range item.Attributes {
			item.Attributes[i].ParentID = item.ID
		}
		if err := tx.Create(&item.Attributes).Error; err != nil {
			return fmt.Errorf("failed to save attributes of %s: %w", item.ItemCode, err)
		}
		return nil
	})
}

// ShortlistVariants returns the variants of a template having at least one
// attribute row equal to any of the pairs. Results are ordered by creation
// time then item code and carry their attribute rows.
func (s *Store) ShortlistVariants(ctx context.Context, templateID string, pairs []models.AttributePair, excludeID string) ([]models.Item, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	conds := make([]clause.Expression, 0, len(pairs))
	for _, p := range pairs {
		conds = append(conds, clause.And(
			clause.Eq{Column: clause.Column{Table: "iva", Name: "attribute"}, Value: p.Attribute},
			clause.Eq{Column: clause.Column{Table: "iva", Name: "attribute_value"}, Value: p.Value},
		))
	}
	// A lone OrConditions is joined with OR by gorm, so wrap single pairs.
	match := conds[0]
	if len(conds) > 1 {
		match = clause.Or(conds...)
	}

	exists := s.db.Session(&gorm.Session{NewDB: true}).
		Table("item_variant_attributes AS iva").
		Select("1").
		Where("iva.parent_id = items.id").
		Where(match)

	query := s.db.WithContext(ctx).
		Preload("Attributes", orderByIdx).
		Where(clause.Eq{Column: clause.Column{Table: "items", Name: "variant_of"}, Value: templateID}).
		Where("EXISTS (?)", exists)
	if excludeID != "" {
		query = query.Where(clause.Neq{Column: clause.Column{Table: "items", Name: "id"}, Value: excludeID})
	}

	var variants []models.Item
	if err := query.Order("created_at").Order("item_code").Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to shortlist variants: %w", err)
	}
	return variants, nil
}

// ListVariants returns every variant of a template.
func (s *Store) ListVariants(ctx context.Context, templateID string) ([]models.Item, error) {
	var variants []models.Item
	err := s.db.WithContext(ctx).
		Preload("Attributes", orderByIdx).
		Where(clause.Eq{Column: "variant_of", Value: templateID}).
		Order("created_at").Order("item_code").
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list variants of %s: %w", templateID, err)
	}
	return variants, nil
}

// ListTemplates returns every item that defines variants.
func (s *Store) ListTemplates(ctx context.Context) ([]models.Item, error) {
	var templates []models.Item
	err := s.db.WithContext(ctx).
		Preload("Attributes", orderByIdx).
		Where(clause.Eq{Column: "has_variants", Value: true}).
		Order("item_code").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// Counts holds row counts for status reports.
type Counts struct {
	Templates int64 `json:"templates"`
	Variants  int64 `json:"variants"`
}

// CountItems counts templates and variants.
func (s *Store) CountItems(ctx context.Context) (Counts, error) {
	var c Counts
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Item{}).Where(clause.Eq{Column: "has_variants", Value: true}).Count(&c.Templates).Error; err != nil {
		return c, fmt.Errorf("failed to count templates: %w", err)
	}
	if err := db.Model(&models.Item{}).Where(clause.Neq{Column: "variant_of", Value: ""}).Count(&c.Variants).Error; err != nil {
		return c, fmt.Errorf("failed to count variants: %w", err)
	}
	return c, nil
}
