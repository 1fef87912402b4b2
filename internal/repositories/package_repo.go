package repositories

import (
	"context"

	"pharmafind/internal/models"
)

type PackageRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]*models.Package, error)
}

type packageRepo struct {
	db Database
}

func NewPackageRepo(db Database) PackageRepository {
	return &packageRepo{db: db}
}

// ListByProduct returns the product's packages with their brand attached when
// one is set. The brand keeps its own product_id so callers can spot packages
// pointing at another product's brand.
func (r *packageRepo) ListByProduct(ctx context.Context, productID string) ([]*models.Package, error) {
	query := `
		SELECT pk.id, pk.product_id, pk.brand_id, pk.gtin, pk.pack_size, pk.country_code,
			b.id, b.product_id, b.brand_name, b.manufacturer
		FROM packages pk
		LEFT JOIN brands b ON b.id = pk.brand_id
		WHERE pk.product_id = $1
		ORDER BY pk.id
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []*models.Package
	for rows.Next() {
		pkg := &models.Package{}
		var brandID, brandProductID, brandName, manufacturer *string
		err := rows.Scan(&pkg.ID, &pkg.ProductID, &pkg.BrandID, &pkg.GTIN, &pkg.PackSize, &pkg.CountryCode,
			&brandID, &brandProductID, &brandName, &manufacturer)
		if err != nil {
			return nil, err
		}
		if brandID != nil {
			pkg.Brand = &models.Brand{
				ID:           *brandID,
				ProductID:    derefString(brandProductID),
				BrandName:    derefString(brandName),
				Manufacturer: manufacturer,
			}
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return packages, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
