package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"variant-manager/core/reconcile"
	"variant-manager/core/storage"
	varcatalog "variant-manager/feature/variant/catalog"
	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/store"
	"variant-manager/feature/variant/validate"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const exportPrefix = "exports/"

// ImportReport summarizes a catalog import.
type ImportReport struct {
	Object           string `json:"object"`
	Attributes       int    `json:"attributes"`
	Values           int    `json:"values"`
	TemplatesCreated int    `json:"templates_created"`
	TemplatesUpdated int    `json:"templates_updated"`
}

// DiffReport is the drift between a catalog document and the database.
type DiffReport struct {
	Object     string            `json:"object"`
	InSync     bool              `json:"in_sync"`
	Attributes *reconcile.Report `json:"attributes"`
	Templates  *reconcile.Report `json:"templates"`
}

// ExportReport summarizes a catalog export.
type ExportReport struct {
	Object     string `json:"object"`
	Size       int64  `json:"size"`
	Attributes int    `json:"attributes"`
	Templates  int    `json:"templates"`
}

// Status describes the loaded catalog and the stored items.
type Status struct {
	Object       string            `json:"object"`
	Loaded       bool              `json:"loaded"`
	Catalog      *varcatalog.Stats `json:"catalog,omitempty"`
	Items        store.Counts      `json:"items"`
	LastImport   *time.Time        `json:"last_import,omitempty"`
	LatestExport string            `json:"latest_export,omitempty"`
}

// Service moves the attribute catalog between object storage and the
// database.
type Service struct {
	client storage.Client
	bucket string
	region string
	object string
	store  *store.Store
	cache  *varcatalog.Cache
	logger *zap.Logger

	mu         sync.Mutex
	lastImport time.Time
}

// NewService creates a new catalog service. object is the default document
// read by Import.
func NewService(client storage.Client, cfg storage.Config, object string, st *store.Store, cache *varcatalog.Cache, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		object: object,
		store:  st,
		cache:  cache,
		logger: logger,
	}
}

// Import reads a catalog document and saves its attributes and templates.
// The cached attribute catalog is dropped afterwards.
func (s *Service) Import(ctx context.Context, object string) (*ImportReport, error) {
	if object == "" {
		object = s.object
	}

	doc, err := s.readDocument(ctx, object)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListAttributes(ctx)
	if err != nil {
		return nil, err
	}
	known := make([]string, 0, len(existing))
	for _, a := range existing {
		known = append(known, a.Name)
	}
	if err := doc.Validate(known); err != nil {
		return nil, err
	}

	// Attributes are saved before templates refer to them. The cache is
	// dropped even when a later step fails.
	defer s.cache.Invalidate()

	report := &ImportReport{Object: object}
	for i := range doc.Attributes {
		attr := &doc.Attributes[i]
		if err := s.store.SaveAttribute(ctx, attr); err != nil {
			return nil, err
		}
		report.Attributes++
		report.Values += len(attr.Values)
	}

	for _, t := range doc.Templates {
		item, err := s.store.GetItem(ctx, t.ItemCode)
		switch {
		case errors.Is(err, store.ErrNotFound):
			item = models.NewItem()
			report.TemplatesCreated++
		case err != nil:
			return nil, err
		case !item.IsTemplate():
			return nil, validate.Errorf("Item %s exists and is not a template", t.ItemCode)
		default:
			report.TemplatesUpdated++
		}

		t.Apply(item)
		if err := s.store.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.lastImport = time.Now()
	s.mu.Unlock()

	s.logger.Info("Catalog imported",
		zap.String("object", object),
		zap.Int("attributes", report.Attributes),
		zap.Int("values", report.Values),
		zap.Int("templates_created", report.TemplatesCreated),
		zap.Int("templates_updated", report.TemplatesUpdated),
	)
	return report, nil
}

func (s *Service) readDocument(ctx context.Context, object string) (*Document, error) {
	rc, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", object, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, validate.Errorf("Catalog document %s is not valid: %v", object, err)
	}
	return &doc, nil
}

// Diff compares a catalog document with the stored attributes and
// templates without writing anything.
func (s *Service) Diff(ctx context.Context, object string) (*DiffReport, error) {
	if object == "" {
		object = s.object
	}

	doc, err := s.readDocument(ctx, object)
	if err != nil {
		return nil, err
	}

	attrs, err := reconcile.Reconcile(ctx, &attributeAdapter{doc: doc, store: s.store})
	if err != nil {
		return nil, err
	}
	templates, err := reconcile.Reconcile(ctx, &templateAdapter{doc: doc, store: s.store})
	if err != nil {
		return nil, err
	}

	report := &DiffReport{
		Object:     object,
		InSync:     attrs.InSync() && templates.InSync(),
		Attributes: attrs,
		Templates:  templates,
	}
	if !report.InSync {
		s.logger.Info("Catalog document differs from the database",
			zap.String("object", object),
			zap.Int("attribute_issues", len(attrs.Issues())),
			zap.Int("template_issues", len(templates.Issues())),
		)
	}
	return report, nil
}

// Export writes the stored attributes and templates as a catalog document.
// An empty object name picks a timestamped name under exports/.
func (s *Service) Export(ctx context.Context, object string) (*ExportReport, error) {
	if object == "" {
		object = fmt.Sprintf("%scatalog-%s.json", exportPrefix, time.Now().UTC().Format("20060102T150405Z"))
	}

	attrs, err := s.store.ListAttributes(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	doc := Document{Attributes: attrs, Templates: make([]Template, 0, len(templates))}
	for i := range templates {
		doc.Templates = append(doc.Templates, TemplateOf(&templates[i]))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return nil, err
	}
	info, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", object, err)
	}

	s.logger.Info("Catalog exported", zap.String("object", object), zap.Int64("size", info.Size))
	return &ExportReport{
		Object:     object,
		Size:       int64(len(data)),
		Attributes: len(doc.Attributes),
		Templates:  len(doc.Templates),
	}, nil
}

// Status reports the cached catalog without loading it.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	counts, err := s.store.CountItems(ctx)
	if err != nil {
		return nil, err
	}

	st := &Status{Object: s.object, Items: counts}
	if snap, ok := s.cache.Current(); ok {
		stats := snap.Stats()
		st.Loaded = true
		st.Catalog = &stats
	}

	s.mu.Lock()
	if !s.lastImport.IsZero() {
		t := s.lastImport
		st.LastImport = &t
	}
	s.mu.Unlock()

	latest, found, err := storage.Latest(ctx, s.client, s.bucket, exportPrefix)
	if err != nil {
		// Exports are informational; a listing failure is only logged.
		s.logger.Warn("Failed to list catalog exports", zap.Error(err))
	} else if found {
		st.LatestExport = latest.Key
	}
	return st, nil
}

// Refresh reloads the attribute catalog from the database.
func (s *Service) Refresh(ctx context.Context) (varcatalog.Stats, error) {
	snap, err := s.cache.Refresh(ctx)
	if err != nil {
		return varcatalog.Stats{}, err
	}
	return snap.Stats(), nil
}
