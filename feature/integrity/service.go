package integrity

import (
	"context"
	"fmt"

	"variant-manager/core/storage"
	"variant-manager/feature/integrity/checks"
	"variant-manager/feature/variant/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	object string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service. object is the catalog
// document expected in the bucket; db may be nil when only storage checks
// are used.
func NewService(client storage.Client, bucket, object string, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		object: object,
		db:     db,
		logger: logger,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckCatalog returns the catalog document when it is missing from the bucket.
func (s *Service) CheckCatalog(ctx context.Context) ([]string, error) {
	return checks.CheckDocuments(ctx, s.client, s.bucket, []string{s.object})
}

// CheckSchema compares the variant tables with their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database is not configured")
	}
	return checks.CheckSchema(s.db, models.All())
}
