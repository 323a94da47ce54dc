package variant

import (
	"context"
	"errors"
	"fmt"

	"variant-manager/feature/variant/builder"
	"variant-manager/feature/variant/catalog"
	"variant-manager/feature/variant/combination"
	"variant-manager/feature/variant/matcher"
	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/store"
	"variant-manager/feature/variant/validate"

	"go.uber.org/zap"
)

// GenerationReport counts the outcome of a bulk generation run.
type GenerationReport struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Items   []string `json:"items"`
}

// Resolution is the result of ResolveOrBuildVariant: either the id of an
// existing variant or a new, unsaved manufacturer variant.
type Resolution struct {
	VariantID string       `json:"variant_id,omitempty"`
	Found     bool         `json:"found"`
	Variant   *models.Item `json:"variant,omitempty"`
}

// Service handles variant operations.
type Service struct {
	store   *store.Store
	catalog *catalog.Cache
	matcher *matcher.Matcher
	logger  *zap.Logger
}

// NewService creates a new variant service.
func NewService(st *store.Store, cache *catalog.Cache, logger *zap.Logger) *Service {
	return &Service{
		store:   st,
		catalog: cache,
		matcher: matcher.New(st),
		logger:  logger,
	}
}

func (s *Service) template(ctx context.Context, ref string) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !item.IsTemplate() {
		return nil, fmt.Errorf("%w: %s", ErrNotTemplate, item.ItemCode)
	}
	return item, nil
}

// GenerateAllCombinations creates one variant per combination of the spec.
// Variants that already exist are skipped; a failing combination is logged
// and does not stop the run or undo earlier ones. Cancelling ctx stops the
// run between combinations and returns the partial report with the error.
func (s *Service) GenerateAllCombinations(ctx context.Context, templateRef string, spec combination.Spec) (bool, *GenerationReport, error) {
	tmpl, err := s.template(ctx, templateRef)
	if err != nil {
		return false, nil, err
	}
	if err := combination.Precheck(ctx, s.store, tmpl, spec); err != nil {
		return false, nil, err
	}

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return false, nil, err
	}
	b := builder.New(snap, s.logger)

	report := &GenerationReport{Items: []string{}}
	for _, combo := range combination.Expand(tmpl.DisplayName(), spec) {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Variant generation interrupted",
				zap.String("template", tmpl.ItemCode),
				zap.Int("created", report.Created),
				zap.Error(err),
			)
			return false, report, fmt.Errorf("variant generation for %s interrupted: %w", tmpl.ItemCode, err)
		}
		l := s.logger.With(zap.String("template", tmpl.ItemCode), zap.String("combination", combo.ItemName))

		variant := b.Create(tmpl, combo.Assignment())
		variant.HasSerialNo = true
		variant.DirectlySaleable = true
		variant.SyncWithEbay = true
		variant.SyncWithEbayTwo = true
		if variant.ItemName == "" {
			variant.ItemName = combo.ItemName
		}

		existing, found, err := s.matcher.Find(ctx, tmpl.ID, models.AssignmentOf(variant), "")
		if err != nil {
			report.Failed++
			l.Error("Failed to look up variant", zap.Error(err))
			continue
		}
		if !found && variant.ItemCode != "" {
			existing, found, err = s.store.ItemExists(ctx, variant.ItemCode)
			if err != nil {
				report.Failed++
				l.Error("Failed to look up item code", zap.Error(err))
				continue
			}
		}
		if found {
			report.Skipped++
			l.Info("Variant already exists", zap.String("id", existing))
			continue
		}

		if err := s.store.SaveItem(ctx, variant); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				report.Skipped++
				l.Info("Variant already exists", zap.String("item_code", variant.ItemCode))
				continue
			}
			report.Failed++
			l.Error("Failed to create variant", zap.Error(err))
			continue
		}
		report.Created++
		report.Items = append(report.Items, variant.ItemCode)
		l.Debug("Created variant", zap.String("item_code", variant.ItemCode))
	}

	s.logger.Info("Variant generation finished",
		zap.String("template", tmpl.ItemCode),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return true, report, nil
}

// ResolveOrBuildVariant builds a manufacturer variant when the template is
// manufacturer based and a manufacturer is given. Otherwise it looks up the
// variant matching the assignment, skipping excludeID; it never builds one.
func (s *Service) ResolveOrBuildVariant(ctx context.Context, templateRef string, assignment models.Assignment, excludeID, manufacturer, partNo string) (*Resolution, error) {
	tmpl, err := s.template(ctx, templateRef)
	if err != nil {
		return nil, err
	}

	if tmpl.VariantBasedOn == models.BasedOnManufacturer && manufacturer != "" {
		code, err := s.store.AppendUniqueSuffix(ctx, tmpl.ItemCode)
		if err != nil {
			return nil, err
		}
		variant := builder.New(nil, s.logger).CreateForManufacturer(tmpl, manufacturer, partNo, code)
		return &Resolution{Variant: variant}, nil
	}

	if len(assignment) == 0 {
		return nil, validate.Errorf("Please specify at least one attribute in the Attributes table")
	}

	id, found, err := s.matcher.Find(ctx, tmpl.ID, assignment, excludeID)
	if err != nil {
		return nil, err
	}
	return &Resolution{VariantID: id, Found: found}, nil
}

// BuildVariant validates the assignment and returns an unsaved variant.
func (s *Service) BuildVariant(ctx context.Context, templateRef string, assignment models.Assignment) (*models.Item, error) {
	tmpl, err := s.template(ctx, templateRef)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, tmpl, assignment)
}

func (s *Service) build(ctx context.Context, tmpl *models.Item, assignment models.Assignment) (*models.Item, error) {
	if len(assignment) == 0 {
		return nil, validate.Errorf("Please specify at least one attribute in the Attributes table")
	}
	if err := validate.Attributes(tmpl.AttributeNames(), tmpl.ItemCode, assignment); err != nil {
		return nil, err
	}

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Assignment(snap, tmpl.ItemCode, assignment); err != nil {
		return nil, err
	}
	return builder.New(snap, s.logger).Create(tmpl, assignment), nil
}

// CreateVariant builds and saves a variant unless one with the same
// attributes exists. The lookup and the insert are not atomic; the unique
// item code index rejects a concurrent duplicate.
func (s *Service) CreateVariant(ctx context.Context, templateRef string, assignment models.Assignment) (*models.Item, error) {
	tmpl, err := s.template(ctx, templateRef)
	if err != nil {
		return nil, err
	}

	variant, err := s.build(ctx, tmpl, assignment)
	if err != nil {
		return nil, err
	}

	existing, found, err := s.matcher.Find(ctx, tmpl.ID, models.AssignmentOf(variant), "")
	if err != nil {
		return nil, err
	}
	if !found && variant.ItemCode != "" {
		existing, found, err = s.store.ItemExists(ctx, variant.ItemCode)
		if err != nil {
			return nil, err
		}
	}
	if found {
		return nil, variantExists(existing)
	}

	if err := s.store.SaveItem(ctx, variant); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, variantExists(variant.ItemCode)
		}
		return nil, err
	}
	s.logger.Info("Created variant",
		zap.String("template", tmpl.ItemCode),
		zap.String("item_code", variant.ItemCode),
	)
	return variant, nil
}

// ValidateItemAttributes validates an assignment against the catalog. An
// empty assignment validates the item's own attribute rows.
func (s *Service) ValidateItemAttributes(ctx context.Context, itemRef string, assignment models.Assignment) error {
	item, err := s.store.GetItem(ctx, itemRef)
	if err != nil {
		return err
	}
	if len(assignment) == 0 {
		assignment = models.AssignmentOf(item)
	}

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return err
	}
	return validate.Assignment(snap, item.ItemCode, assignment)
}

// ListVariants returns the variants of a template.
func (s *Service) ListVariants(ctx context.Context, templateRef string) ([]models.Item, error) {
	tmpl, err := s.template(ctx, templateRef)
	if err != nil {
		return nil, err
	}
	return s.store.ListVariants(ctx, tmpl.ID)
}
