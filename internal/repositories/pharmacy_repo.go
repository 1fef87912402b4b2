package repositories

import (
	"context"

	"pharmafind/internal/models"
)

type PharmacyRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*models.Pharmacy, error)
}

type pharmacyRepo struct {
	db Database
}

func NewPharmacyRepo(db Database) PharmacyRepository {
	return &pharmacyRepo{db: db}
}

func (r *pharmacyRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Pharmacy, error) {
	if len(ids) == 0 {
		return []*models.Pharmacy{}, nil
	}
	query := `
		SELECT id, name, country, city, address, lat, lng, phone, opening_hours
		FROM pharmacies
		WHERE id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pharmacies []*models.Pharmacy
	for rows.Next() {
		p := &models.Pharmacy{}
		err := rows.Scan(&p.ID, &p.Name, &p.Country, &p.City, &p.Address, &p.Lat, &p.Lng, &p.Phone, &p.OpeningHours)
		if err != nil {
			return nil, err
		}
		pharmacies = append(pharmacies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pharmacies, nil
}
