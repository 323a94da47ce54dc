package variant_test

import (
	"context"
	"testing"

	"variant-manager/core/database"
	"variant-manager/feature/variant"
	"variant-manager/feature/variant/catalog"
	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	store   *store.Store
	cache   *catalog.Cache
	service *variant.Service
}

// setup seeds an in-memory catalog:
//
//	Color  Red (RD), Blue (BL), Green (GR)
//	Size   S, M
//	Length numeric 10..20 step 2
//
// and the templates TSHIRT (Color, Size), CABLE (Color, Length) and the
// manufacturer based PART, plus the plain item MUG.
func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	st := store.New(db)
	require.NoError(t, st.Migrate(ctx))

	require.NoError(t, st.SaveAttribute(ctx, &models.ItemAttribute{
		Name: "Color",
		Values: []models.ItemAttributeValue{
			{AttributeValue: "Red", Abbr: "RD"},
			{AttributeValue: "Blue", Abbr: "BL"},
			{AttributeValue: "Green", Abbr: "GR"},
		},
	}))
	require.NoError(t, st.SaveAttribute(ctx, &models.ItemAttribute{
		Name: "Size",
		Values: []models.ItemAttributeValue{
			{AttributeValue: "S", Abbr: "S"},
			{AttributeValue: "M", Abbr: "M"},
		},
	}))
	require.NoError(t, st.SaveAttribute(ctx, &models.ItemAttribute{
		Name:          "Length",
		NumericValues: true,
		FromRange:     decimal.NewFromInt(10),
		ToRange:       decimal.NewFromInt(20),
		Increment:     decimal.NewFromInt(2),
	}))

	items := []*models.Item{
		{
			ItemCode:       "TSHIRT",
			ItemName:       "T-Shirt",
			Description:    "Cotton shirt",
			HasVariants:    true,
			VariantBasedOn: models.BasedOnItemAttribute,
			Attributes:     []models.ItemVariantAttribute{{Attribute: "Color"}, {Attribute: "Size"}},
		},
		{
			ItemCode:       "CABLE",
			ItemName:       "Cable",
			HasVariants:    true,
			VariantBasedOn: models.BasedOnItemAttribute,
			Attributes:     []models.ItemVariantAttribute{{Attribute: "Color"}, {Attribute: "Length"}},
		},
		{
			ItemCode:       "PART",
			ItemName:       "Spare Part",
			HasVariants:    true,
			VariantBasedOn: models.BasedOnManufacturer,
			Manufacturer:   "Default Co",
		},
		{ItemCode: "MUG", ItemName: "Mug"},
	}
	for _, item := range items {
		require.NoError(t, st.SaveItem(ctx, item))
	}

	cache := catalog.NewCache(st, 0)
	return &fixture{
		db:      db,
		store:   st,
		cache:   cache,
		service: variant.NewService(st, cache, zap.NewNop()),
	}
}
