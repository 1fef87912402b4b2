package repositories

import (
	"context"

	"pharmafind/internal/models"
)

type TranslationRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]*models.Translation, error)
	ListByProducts(ctx context.Context, productIDs []string) (map[string][]*models.Translation, error)
}

type translationRepo struct {
	db Database
}

func NewTranslationRepo(db Database) TranslationRepository {
	return &translationRepo{db: db}
}

const translationColumns = `id, product_id, language_code, translated_name, translated_description`

func (r *translationRepo) ListByProduct(ctx context.Context, productID string) ([]*models.Translation, error) {
	query := `
		SELECT ` + translationColumns + `
		FROM translations
		WHERE product_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var translations []*models.Translation
	for rows.Next() {
		t := &models.Translation{}
		if err := rows.Scan(&t.ID, &t.ProductID, &t.LanguageCode, &t.TranslatedName, &t.TranslatedDescription); err != nil {
			return nil, err
		}
		translations = append(translations, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return translations, nil
}

// ListByProducts groups translations by product id. Order within a product is
// the same as ListByProduct.
func (r *translationRepo) ListByProducts(ctx context.Context, productIDs []string) (map[string][]*models.Translation, error) {
	result := make(map[string][]*models.Translation)
	if len(productIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT ` + translationColumns + `
		FROM translations
		WHERE product_id = ANY($1)
		ORDER BY product_id, id
	`
	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		t := &models.Translation{}
		if err := rows.Scan(&t.ID, &t.ProductID, &t.LanguageCode, &t.TranslatedName, &t.TranslatedDescription); err != nil {
			return nil, err
		}
		result[t.ProductID] = append(result[t.ProductID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
