package repositories

import (
	"context"
)

// DuplicateTranslation is a (product, language) pair with more than one translation.
type DuplicateTranslation struct {
	ProductID    string
	LanguageCode string
	Count        int
}

// BrandMismatch is a package whose brand belongs to a different product.
type BrandMismatch struct {
	PackageID        string
	PackageProductID string
	BrandID          string
	BrandProductID   string
}

// IntegrityRepository finds catalog rows that break the assumptions search
// relies on. Reads resolve these at request time; this surfaces them for repair.
type IntegrityRepository interface {
	FindDuplicateTranslations(ctx context.Context) ([]DuplicateTranslation, error)
	FindBrandMismatches(ctx context.Context) ([]BrandMismatch, error)
}

type integrityRepo struct {
	db Database
}

func NewIntegrityRepo(db Database) IntegrityRepository {
	return &integrityRepo{db: db}
}

func (r *integrityRepo) FindDuplicateTranslations(ctx context.Context) ([]DuplicateTranslation, error) {
	query := `
		SELECT product_id, lower(language_code) AS lang, COUNT(*)
		FROM translations
		GROUP BY product_id, lower(language_code)
		HAVING COUNT(*) > 1
		ORDER BY product_id, lang
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duplicates []DuplicateTranslation
	for rows.Next() {
		var d DuplicateTranslation
		if err := rows.Scan(&d.ProductID, &d.LanguageCode, &d.Count); err != nil {
			return nil, err
		}
		duplicates = append(duplicates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return duplicates, nil
}

func (r *integrityRepo) FindBrandMismatches(ctx context.Context) ([]BrandMismatch, error) {
	query := `
		SELECT pk.id, pk.product_id, b.id, b.product_id
		FROM packages pk
		JOIN brands b ON b.id = pk.brand_id
		WHERE b.product_id <> pk.product_id
		ORDER BY pk.id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mismatches []BrandMismatch
	for rows.Next() {
		var m BrandMismatch
		if err := rows.Scan(&m.PackageID, &m.PackageProductID, &m.BrandID, &m.BrandProductID); err != nil {
			return nil, err
		}
		mismatches = append(mismatches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mismatches, nil
}
