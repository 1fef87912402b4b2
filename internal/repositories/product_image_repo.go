package repositories

import (
	"context"

	"pharmafind/internal/models"
)

type ProductImageRepository interface {
	ListByPackages(ctx context.Context, packageIDs []string) (map[string][]*models.ProductImage, error)
}

type productImageRepo struct {
	db Database
}

func NewProductImageRepo(db Database) ProductImageRepository {
	return &productImageRepo{db: db}
}

// ListByPackages groups images by package id with the primary image first.
func (r *productImageRepo) ListByPackages(ctx context.Context, packageIDs []string) (map[string][]*models.ProductImage, error) {
	images := make(map[string][]*models.ProductImage)
	if len(packageIDs) == 0 {
		return images, nil
	}
	query := `
		SELECT id, package_id, image_url, is_primary
		FROM product_images
		WHERE package_id = ANY($1)
		ORDER BY package_id, is_primary DESC, id
	`
	rows, err := r.db.Query(ctx, query, packageIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		img := &models.ProductImage{}
		if err := rows.Scan(&img.ID, &img.PackageID, &img.ImageURL, &img.IsPrimary); err != nil {
			return nil, err
		}
		images[img.PackageID] = append(images[img.PackageID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}
