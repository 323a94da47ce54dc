package variant_test

import (
	"context"
	"io"
	"testing"

	"variant-manager/feature/variant"
	"variant-manager/feature/variant/combination"
	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/store"
	"variant-manager/feature/variant/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func colorSize() combination.Spec {
	return combination.Spec{
		{Attribute: "Color", Values: "Red, Blue ,Green"},
		{Attribute: "Size", Values: "S,M"},
	}
}

func TestGenerateAllCombinations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ok, report, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", colorSize())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 6, report.Created)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, []string{
		"TSHIRT-RD-S", "TSHIRT-RD-M",
		"TSHIRT-BL-S", "TSHIRT-BL-M",
		"TSHIRT-GR-S", "TSHIRT-GR-M",
	}, report.Items)

	v, err := f.store.GetItem(ctx, "TSHIRT-BL-M")
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt-BL-M", v.ItemName)
	assert.True(t, v.HasSerialNo)
	assert.True(t, v.DirectlySaleable)
	assert.True(t, v.SyncWithEbay)
	assert.True(t, v.SyncWithEbayTwo)
	assert.False(t, v.HasVariants)
	assert.Equal(t, models.Assignment{"Color": "Blue", "Size": "M"}, models.AssignmentOf(v))
	assert.Equal(t, "Cotton shirt\n<p>Color: Blue</p><p>Size: M</p>", v.Description)
}

func TestGenerateAllCombinations_Idempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, _, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", colorSize())
	require.NoError(t, err)

	ok, report, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", colorSize())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 6, report.Skipped)

	variants, err := f.service.ListVariants(ctx, "TSHIRT")
	require.NoError(t, err)
	assert.Len(t, variants, 6)
}

func TestGenerateAllCombinations_PartialSpec(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	spec := combination.Spec{{Attribute: "Color", Values: "Red,Blue"}}

	_, report, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", spec)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	// Size has no value, so no abbreviation: the store names them.
	assert.Equal(t, []string{"TSHIRT-1", "TSHIRT-2"}, report.Items)

	v, err := f.store.GetItem(ctx, "TSHIRT-1")
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt - Red", v.ItemName)

	_, report, err = f.service.GenerateAllCombinations(ctx, "TSHIRT", spec)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 2, report.Skipped)
}

func TestGenerateAllCombinations_PartialFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.db.Exec(`CREATE TRIGGER reject_rd_m BEFORE INSERT ON items
		WHEN NEW.item_code = 'TSHIRT-RD-M'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`).Error)

	spec := combination.Spec{
		{Attribute: "Color", Values: "Red,Blue"},
		{Attribute: "Size", Values: "S,M"},
	}
	ok, report, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", spec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"TSHIRT-RD-S", "TSHIRT-BL-S", "TSHIRT-BL-M"}, report.Items)

	_, err = f.store.GetItem(ctx, "TSHIRT-RD-M")
	assert.ErrorIs(t, err, store.ErrNotFound)

	variants, err := f.service.ListVariants(ctx, "TSHIRT")
	require.NoError(t, err)
	assert.Len(t, variants, 3)
	for _, v := range variants {
		assert.Len(t, v.Attributes, 2, v.ItemCode)
	}
}

func TestGenerateAllCombinations_StopsWhenCancelled(t *testing.T) {
	f := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel as soon as the first variant is reported.
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(io.Discard), zapcore.DebugLevel)
	logger := zap.New(core, zap.Hooks(func(e zapcore.Entry) error {
		if e.Message == "Created variant" {
			cancel()
		}
		return nil
	}))
	svc := variant.NewService(f.store, f.cache, logger)

	ok, report, err := svc.GenerateAllCombinations(ctx, "TSHIRT", colorSize())
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, []string{"TSHIRT-RD-S"}, report.Items)

	variants, err := f.service.ListVariants(context.Background(), "TSHIRT")
	require.NoError(t, err)
	assert.Len(t, variants, 1)
}

func TestGenerateAllCombinations_Rejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("Unknown value", func(t *testing.T) {
		spec := combination.Spec{{Attribute: "Color", Values: "Red,Purple"}}
		ok, report, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", spec)
		assert.False(t, ok)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, validate.ErrInvalidAttributeValue)
		assert.Contains(t, err.Error(), "Purple")
	})

	t.Run("Attribute not on template", func(t *testing.T) {
		spec := combination.Spec{{Attribute: "Size", Values: "S"}}
		_, _, err := f.service.GenerateAllCombinations(ctx, "CABLE", spec)
		assert.ErrorIs(t, err, validate.ErrInvalidAttributeValue)
	})

	t.Run("Empty spec", func(t *testing.T) {
		_, _, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", nil)
		assert.ErrorIs(t, err, validate.ErrValidation)
	})

	t.Run("Not a template", func(t *testing.T) {
		_, _, err := f.service.GenerateAllCombinations(ctx, "MUG", colorSize())
		assert.ErrorIs(t, err, variant.ErrNotTemplate)
		assert.ErrorIs(t, err, validate.ErrValidation)
	})

	t.Run("Missing template", func(t *testing.T) {
		_, _, err := f.service.GenerateAllCombinations(ctx, "NOPE", colorSize())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	variants, err := f.service.ListVariants(ctx, "TSHIRT")
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestResolveOrBuildVariant(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, _, err := f.service.GenerateAllCombinations(ctx, "TSHIRT", combination.Spec{
		{Attribute: "Color", Values: "Red"},
		{Attribute: "Size", Values: "S,M"},
	})
	require.NoError(t, err)

	v1, err := f.store.GetItem(ctx, "TSHIRT-RD-S")
	require.NoError(t, err)

	t.Run("Exact match", func(t *testing.T) {
		res, err := f.service.ResolveOrBuildVariant(ctx, "TSHIRT", models.Assignment{"Color": "Red", "Size": "S"}, "", "", "")
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, v1.ID, res.VariantID)
		assert.Nil(t, res.Variant)
	})

	t.Run("Fewer keys", func(t *testing.T) {
		res, err := f.service.ResolveOrBuildVariant(ctx, "TSHIRT", models.Assignment{"Color": "Red"}, "", "", "")
		require.NoError(t, err)
		assert.False(t, res.Found)
		assert.Empty(t, res.VariantID)
	})

	t.Run("Excluded", func(t *testing.T) {
		res, err := f.service.ResolveOrBuildVariant(ctx, "TSHIRT", models.Assignment{"Color": "Red", "Size": "S"}, v1.ID, "", "")
		require.NoError(t, err)
		assert.False(t, res.Found)
	})

	t.Run("No attributes", func(t *testing.T) {
		_, err := f.service.ResolveOrBuildVariant(ctx, "TSHIRT", nil, "", "", "")
		assert.ErrorIs(t, err, validate.ErrValidation)
	})

	t.Run("Manufacturer ignored for attribute templates", func(t *testing.T) {
		res, err := f.service.ResolveOrBuildVariant(ctx, "TSHIRT", models.Assignment{"Color": "Red", "Size": "M"}, "", "Acme", "A-1")
		require.NoError(t, err)
		assert.True(t, res.Found)
	})
}

func TestResolveOrBuildVariant_Manufacturer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.ResolveOrBuildVariant(ctx, "PART", nil, "", "Acme", "AC-100")
	require.NoError(t, err)
	require.NotNil(t, res.Variant)
	assert.False(t, res.Found)
	assert.Equal(t, "PART-1", res.Variant.ItemCode)
	assert.Equal(t, "Acme", res.Variant.Manufacturer)
	assert.Equal(t, "AC-100", res.Variant.ManufacturerPartNo)

	tmpl, err := f.store.GetItem(ctx, "PART")
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, res.Variant.VariantOf)

	// Nothing is saved.
	_, exists, err := f.store.ItemExists(ctx, "PART-1")
	require.NoError(t, err)
	assert.False(t, exists)

	// Without a manufacturer an assignment is required.
	_, err = f.service.ResolveOrBuildVariant(ctx, "PART", nil, "", "", "")
	assert.ErrorIs(t, err, validate.ErrValidation)
}

func TestBuildVariant(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v, err := f.service.BuildVariant(ctx, "CABLE", models.Assignment{"Color": "Red", "Length": "12"})
	require.NoError(t, err)
	assert.Equal(t, "CABLE-RD-12", v.ItemCode)
	assert.Equal(t, "Cable-RD-12", v.ItemName)
	assert.Empty(t, v.ID)

	_, exists, err := f.store.ItemExists(ctx, "CABLE-RD-12")
	require.NoError(t, err)
	assert.False(t, exists)

	tests := []struct {
		name       string
		assignment models.Assignment
	}{
		{"Off step", models.Assignment{"Color": "Red", "Length": "13"}},
		{"Out of range", models.Assignment{"Color": "Red", "Length": "22"}},
		{"Unknown value", models.Assignment{"Color": "Purple", "Length": "12"}},
		{"Unknown attribute", models.Assignment{"Color": "Red", "Size": "S"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.BuildVariant(ctx, "CABLE", tt.assignment)
			assert.ErrorIs(t, err, validate.ErrInvalidAttributeValue)
		})
	}

	_, err = f.service.BuildVariant(ctx, "CABLE", models.Assignment{})
	assert.ErrorIs(t, err, validate.ErrValidation)
}

func TestCreateVariant(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.service.CreateVariant(ctx, "CABLE", models.Assignment{"Color": "Blue", "Length": "20"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "CABLE-BL-20", created.ItemCode)

	_, err = f.service.CreateVariant(ctx, "CABLE", models.Assignment{"Color": "Blue", "Length": "20"})
	assert.ErrorIs(t, err, variant.ErrVariantExists)
	assert.Contains(t, err.Error(), created.ID)

	// Attribute keys are matched to the template's names.
	_, err = f.service.CreateVariant(ctx, "CABLE", models.Assignment{"color": "Blue", "length": "20"})
	assert.ErrorIs(t, err, variant.ErrVariantExists)
}

func TestCreateVariant_ItemCodeTaken(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	plain := &models.Item{ItemCode: "CABLE-BL-20", ItemName: "Loose cable"}
	require.NoError(t, f.store.SaveItem(ctx, plain))

	_, err := f.service.CreateVariant(ctx, "CABLE", models.Assignment{"Color": "Blue", "Length": "20"})
	assert.ErrorIs(t, err, variant.ErrVariantExists)
	assert.Contains(t, err.Error(), plain.ID)

	variants, err := f.service.ListVariants(ctx, "CABLE")
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestValidateItemAttributes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.service.CreateVariant(ctx, "CABLE", models.Assignment{"Color": "Green", "Length": "14"})
	require.NoError(t, err)

	assert.NoError(t, f.service.ValidateItemAttributes(ctx, created.ItemCode, nil))
	assert.NoError(t, f.service.ValidateItemAttributes(ctx, created.ItemCode, models.Assignment{"Length": "16"}))

	err = f.service.ValidateItemAttributes(ctx, created.ItemCode, models.Assignment{"Length": "21"})
	assert.ErrorIs(t, err, validate.ErrInvalidAttributeValue)

	err = f.service.ValidateItemAttributes(ctx, "NOPE", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalogCacheInvalidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.BuildVariant(ctx, "CABLE", models.Assignment{"Color": "Red", "Length": "10"})
	require.NoError(t, err)

	require.NoError(t, f.store.SaveAttribute(ctx, &models.ItemAttribute{
		Name: "Color",
		Values: []models.ItemAttributeValue{
			{AttributeValue: "Red", Abbr: "RD"},
			{AttributeValue: "Purple", Abbr: "PU"},
		},
	}))

	// The cached catalog does not know the new value yet.
	_, err = f.service.BuildVariant(ctx, "CABLE", models.Assignment{"Color": "Purple", "Length": "10"})
	assert.ErrorIs(t, err, validate.ErrInvalidAttributeValue)

	f.cache.Invalidate()

	v, err := f.service.BuildVariant(ctx, "CABLE", models.Assignment{"Color": "Purple", "Length": "10"})
	require.NoError(t, err)
	assert.Equal(t, "CABLE-PU-10", v.ItemCode)
}
