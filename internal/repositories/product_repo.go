package repositories

import (
	"context"

	"pharmafind/internal/models"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	SearchByText(ctx context.Context, query, language string, limit int) ([]*models.Product, error)
	ListBrandNames(ctx context.Context, productIDs []string) (map[string][]string, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

// GetByID returns pgx.ErrNoRows when the product does not exist.
func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, inn_name, atc_code, form, strength
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.INNName, &product.ATCCode, &product.Form, &product.Strength)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// SearchByText matches the query as a case-insensitive substring of the INN
// name, the ATC code, any brand name, or a translated name in the given
// language. Each product is returned once.
func (r *productRepo) SearchByText(ctx context.Context, query, language string, limit int) ([]*models.Product, error) {
	sql := `
		SELECT p.id, p.inn_name, p.atc_code, p.form, p.strength
		FROM products p
		WHERE p.inn_name ILIKE $1
		OR COALESCE(p.atc_code, '') ILIKE $1
		OR EXISTS (
			SELECT 1 FROM brands b
			WHERE b.product_id = p.id AND b.brand_name ILIKE $1
		)
		OR EXISTS (
			SELECT 1 FROM translations t
			WHERE t.product_id = p.id AND lower(t.language_code) = lower($2) AND t.translated_name ILIKE $1
		)
		ORDER BY p.inn_name, p.id
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, sql, containsPattern(query), language, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.INNName, &p.ATCCode, &p.Form, &p.Strength); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// ListBrandNames returns the brand names per product id, sorted by name.
func (r *productRepo) ListBrandNames(ctx context.Context, productIDs []string) (map[string][]string, error) {
	names := make(map[string][]string)
	if len(productIDs) == 0 {
		return names, nil
	}
	query := `
		SELECT product_id, brand_name
		FROM brands
		WHERE product_id = ANY($1)
		ORDER BY product_id, brand_name
	`
	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var productID, brandName string
		if err := rows.Scan(&productID, &brandName); err != nil {
			return nil, err
		}
		names[productID] = append(names[productID], brandName)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
