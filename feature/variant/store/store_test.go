package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"variant-manager/core/database"
	"variant-manager/feature/variant/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	s := New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedCatalog(t *testing.T, s *Store) *models.Item {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.SaveAttribute(ctx, &models.ItemAttribute{
		Name: "Color",
		Values: []models.ItemAttributeValue{
			{AttributeValue: "Red", Abbr: "RD"},
			{AttributeValue: "Blue", Abbr: "BL"},
		},
	}))
	require.NoError(t, s.SaveAttribute(ctx, &models.ItemAttribute{
		Name: "Size",
		Values: []models.ItemAttributeValue{
			{AttributeValue: "S", Abbr: "S"},
			{AttributeValue: "M", Abbr: "M"},
		},
	}))
	require.NoError(t, s.SaveAttribute(ctx, &models.ItemAttribute{
		Name:          "Length",
		NumericValues: true,
		FromRange:     decimal.NewFromInt(10),
		ToRange:       decimal.NewFromInt(20),
		Increment:     decimal.NewFromInt(2),
	}))

	tmpl := &models.Item{
		ItemCode:       "TSHIRT",
		ItemName:       "T-Shirt",
		HasVariants:    true,
		VariantBasedOn: models.BasedOnItemAttribute,
		Attributes: []models.ItemVariantAttribute{
			{Attribute: "Color"},
			{Attribute: "Size"},
		},
	}
	require.NoError(t, s.SaveItem(ctx, tmpl))
	return tmpl
}

func saveVariant(t *testing.T, s *Store, tmpl *models.Item, code string, pairs ...string) *models.Item {
	t.Helper()
	v := &models.Item{ItemCode: code, VariantOf: tmpl.ID, VariantBasedOn: models.BasedOnItemAttribute}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Attributes = append(v.Attributes, models.ItemVariantAttribute{Attribute: pairs[i], AttributeValue: pairs[i+1]})
	}
	require.NoError(t, s.SaveItem(context.Background(), v))
	return v
}

func TestGetItem(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)
	ctx := context.Background()

	byCode, err := s.GetItem(ctx, "TSHIRT")
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, byCode.ID)
	assert.Equal(t, []string{"Color", "Size"}, byCode.AttributeNames())
	assert.Equal(t, 1, byCode.Attributes[0].Idx)
	assert.Equal(t, 2, byCode.Attributes[1].Idx)

	byID, err := s.GetItem(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "TSHIRT", byID.ItemCode)

	_, err = s.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveItem_ReplacesAttributes(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)
	ctx := context.Background()

	v := saveVariant(t, s, tmpl, "TSHIRT-RD-S", "Color", "Red", "Size", "S")
	v.Attributes = []models.ItemVariantAttribute{{Attribute: "Color", AttributeValue: "Blue"}}
	v.ItemName = "Blue shirt"
	require.NoError(t, s.SaveItem(ctx, v))

	got, err := s.GetItem(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue shirt", got.ItemName)
	require.Len(t, got.Attributes, 1)
	assert.Equal(t, "Blue", got.Attributes[0].AttributeValue)
}

func TestSaveItem_AutonamesVariant(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)

	first := saveVariant(t, s, tmpl, "", "Color", "Red")
	second := saveVariant(t, s, tmpl, "", "Color", "Blue")

	assert.Equal(t, "TSHIRT-1", first.ItemCode)
	assert.Equal(t, "TSHIRT-2", second.ItemCode)
}

func TestSaveItem_RequiresCode(t *testing.T) {
	s := setupStore(t)
	assert.Error(t, s.SaveItem(context.Background(), &models.Item{ItemName: "orphan"}))
}

func TestSaveItem_DuplicateCode(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)
	saveVariant(t, s, tmpl, "TSHIRT-RD", "Color", "Red")

	dup := &models.Item{ItemCode: "TSHIRT-RD", VariantOf: tmpl.ID}
	assert.ErrorIs(t, s.SaveItem(context.Background(), dup), ErrDuplicate)
}

func TestItemExists(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)

	id, ok, err := s.ItemExists(context.Background(), "TSHIRT")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, tmpl.ID, id)

	_, ok, err = s.ItemExists(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShortlistVariants(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)
	ctx := context.Background()

	v1 := saveVariant(t, s, tmpl, "TSHIRT-RD-S", "Color", "Red", "Size", "S")
	v2 := saveVariant(t, s, tmpl, "TSHIRT-RD-M", "Color", "Red", "Size", "M")
	saveVariant(t, s, tmpl, "TSHIRT-BL-M", "Color", "Blue", "Size", "M")

	other := &models.Item{ItemCode: "MUG", HasVariants: true, Attributes: []models.ItemVariantAttribute{{Attribute: "Color"}}}
	require.NoError(t, s.SaveItem(ctx, other))
	saveVariant(t, s, other, "MUG-RD", "Color", "Red")

	t.Run("Any pair matches", func(t *testing.T) {
		pairs := []models.AttributePair{{Attribute: "Color", Value: "Red"}, {Attribute: "Size", Value: "S"}}
		got, err := s.ShortlistVariants(ctx, tmpl.ID, pairs, "")
		require.NoError(t, err)

		codes := []string{}
		for _, v := range got {
			codes = append(codes, v.ItemCode)
		}
		assert.ElementsMatch(t, []string{"TSHIRT-RD-S", "TSHIRT-RD-M"}, codes)
		for _, v := range got {
			assert.Len(t, v.Attributes, 2)
		}
	})

	t.Run("Single pair", func(t *testing.T) {
		got, err := s.ShortlistVariants(ctx, tmpl.ID, []models.AttributePair{{Attribute: "Size", Value: "M"}}, "")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Exclude", func(t *testing.T) {
		pairs := []models.AttributePair{{Attribute: "Color", Value: "Red"}}
		got, err := s.ShortlistVariants(ctx, tmpl.ID, pairs, v1.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, v2.ID, got[0].ID)
	})

	t.Run("No pairs", func(t *testing.T) {
		got, err := s.ShortlistVariants(ctx, tmpl.ID, nil, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestListVariantsAndCounts(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)
	ctx := context.Background()
	saveVariant(t, s, tmpl, "TSHIRT-RD-S", "Color", "Red", "Size", "S")

	variants, err := s.ListVariants(ctx, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "TSHIRT-RD-S", variants[0].ItemCode)

	templates, err := s.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "TSHIRT", templates[0].ItemCode)

	counts, err := s.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Templates: 1, Variants: 1}, counts)
}

func TestAttributeCatalog(t *testing.T) {
	s := setupStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	values, err := s.ListAttributeValues(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 4)

	numeric, err := s.ListNumericAttributes(ctx)
	require.NoError(t, err)
	require.Len(t, numeric, 1)
	assert.Equal(t, "Length", numeric[0].Name)
	assert.True(t, numeric[0].Increment.Equal(decimal.NewFromInt(2)))

	// Saving again replaces the values.
	require.NoError(t, s.SaveAttribute(ctx, &models.ItemAttribute{
		Name:   "Color",
		Values: []models.ItemAttributeValue{{AttributeValue: "Green", Abbr: "GR"}},
	}))
	attrs, err := s.ListAttributes(ctx)
	require.NoError(t, err)
	require.Len(t, attrs, 3)
	assert.Equal(t, "Color", attrs[0].Name)
	require.Len(t, attrs[0].Values, 1)
	assert.Equal(t, "Green", attrs[0].Values[0].AttributeValue)
}

func TestTemplateHasAttributeValue(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)
	ctx := context.Background()

	tests := []struct {
		attribute, value string
		want             bool
	}{
		{"Color", "Red", true},
		{"Size", "M", true},
		{"Color", "red", false},
		{"Color", "S", false},
		{"Length", "12", false},
	}
	for _, tt := range tests {
		got, err := s.TemplateHasAttributeValue(ctx, tmpl.ID, tt.attribute, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s=%s", tt.attribute, tt.value)
	}
}

func TestAppendUniqueSuffix(t *testing.T) {
	s := setupStore(t)
	tmpl := seedCatalog(t, s)
	ctx := context.Background()

	name, err := s.AppendUniqueSuffix(ctx, "FREE")
	require.NoError(t, err)
	assert.Equal(t, "FREE", name)

	name, err = s.AppendUniqueSuffix(ctx, "TSHIRT")
	require.NoError(t, err)
	assert.Equal(t, "TSHIRT-1", name)

	saveVariant(t, s, tmpl, "TSHIRT-7", "Color", "Red")
	saveVariant(t, s, tmpl, "TSHIRT-RD", "Color", "Blue")
	name, err = s.AppendUniqueSuffix(ctx, "TSHIRT")
	require.NoError(t, err)
	assert.Equal(t, "TSHIRT-8", name)
}

func TestAppendUniqueSuffix_EscapesPattern(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveItem(ctx, &models.Item{ItemCode: "A_B"}))
	require.NoError(t, s.SaveItem(ctx, &models.Item{ItemCode: "AXB-5"}))

	name, err := s.AppendUniqueSuffix(ctx, "A_B")
	require.NoError(t, err)
	assert.Equal(t, "A_B-1", name)
}

func TestShortlistVariants_DatabaseError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	boom := errors.New("connection lost")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `items` WHERE `items`.`variant_of` = ? AND EXISTS (SELECT 1 FROM item_variant_attributes AS iva")).
		WithArgs("tmpl", "Color", "Red").
		WillReturnError(boom)

	_, err = New(db).ShortlistVariants(context.Background(), "tmpl",
		[]models.AttributePair{{Attribute: "Color", Value: "Red"}}, "")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
