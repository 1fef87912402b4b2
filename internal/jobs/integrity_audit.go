package jobs

import (
	"context"
	"fmt"
	"time"

	"pharmafind/internal/repositories"

	"go.uber.org/zap"
)

type IntegrityReport struct {
	DuplicateTranslations []repositories.DuplicateTranslation
	BrandMismatches       []repositories.BrandMismatch
	CheckedAt             time.Time
}

func (r *IntegrityReport) Clean() bool {
	return len(r.DuplicateTranslations) == 0 && len(r.BrandMismatches) == 0
}

// IntegrityAuditor reports catalog rows that searches have to resolve at read
// time: several translations for one (product, language), and packages whose
// brand belongs to another product.
type IntegrityAuditor struct {
	integrityRepo repositories.IntegrityRepository
	logger        *zap.Logger
}

func NewIntegrityAuditor(integrityRepo repositories.IntegrityRepository, logger *zap.Logger) *IntegrityAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntegrityAuditor{
		integrityRepo: integrityRepo,
		logger:        logger,
	}
}

func (a *IntegrityAuditor) Run(ctx context.Context) (*IntegrityReport, error) {
	report := &IntegrityReport{CheckedAt: time.Now().UTC()}

	duplicates, err := a.integrityRepo.FindDuplicateTranslations(ctx)
	if err != nil {
		return nil, fmt.Errorf("find duplicate translations: %w", err)
	}
	report.DuplicateTranslations = duplicates

	mismatches, err := a.integrityRepo.FindBrandMismatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("find brand mismatches: %w", err)
	}
	report.BrandMismatches = mismatches

	for _, d := range duplicates {
		a.logger.Warn("Duplicate translations for product language",
			zap.String("product_id", d.ProductID),
			zap.String("language", d.LanguageCode),
			zap.Int("count", d.Count))
	}
	for _, m := range mismatches {
		a.logger.Warn("Package brand belongs to another product",
			zap.String("package_id", m.PackageID),
			zap.String("product_id", m.PackageProductID),
			zap.String("brand_id", m.BrandID),
			zap.String("brand_product_id", m.BrandProductID))
	}

	a.logger.Info("Catalog integrity audit completed",
		zap.Int("duplicate_translations", len(duplicates)),
		zap.Int("brand_mismatches", len(mismatches)),
		zap.Bool("clean", report.Clean()))

	return report, nil
}
