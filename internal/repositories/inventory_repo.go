package repositories

import (
	"context"
	"fmt"

	"pharmafind/internal/geo"
	"pharmafind/internal/models"
)

// pushdownSlackKm widens the SQL radius so that rounding differences between
// Postgres and Go trig never drop a pharmacy the in-process check would keep.
const pushdownSlackKm = 0.001

// GeoBound restricts inventory rows to pharmacies within RadiusKm of Origin.
type GeoBound struct {
	Origin   geo.Point
	RadiusKm float64
}

// InventoryQuery selects in-stock inventory rows for a set of packages
type InventoryQuery struct {
	PackageIDs  []string  // Required, rows for other packages are never returned
	PharmacyIDs []string  // Optional restriction to these pharmacies
	MinStock    int       // Minimum stock_quantity (values below 1 are raised to 1)
	Near        *GeoBound // Optional radius pre-filter evaluated in Postgres
}

type InventoryRepository interface {
	FindInStock(ctx context.Context, q InventoryQuery) ([]*models.InventoryRow, error)
}

type inventoryRepo struct {
	db Database
}

func NewInventoryRepo(db Database) InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) FindInStock(ctx context.Context, q InventoryQuery) ([]*models.InventoryRow, error) {
	if len(q.PackageIDs) == 0 {
		return []*models.InventoryRow{}, nil
	}
	minStock := q.MinStock
	if minStock < 1 {
		minStock = 1
	}

	query := `
		SELECT pi.pharmacy_id, pi.package_id, pi.price_cents, pi.currency, pi.stock_quantity, pi.last_updated, b.brand_name
		FROM pharmacy_inventory pi
		JOIN packages pk ON pk.id = pi.package_id
		LEFT JOIN brands b ON b.id = pk.brand_id
		WHERE pi.package_id = ANY($1)
		AND pi.stock_quantity IS NOT NULL AND pi.stock_quantity >= $2
	`
	args := []interface{}{q.PackageIDs, minStock}
	argCount := 2

	if len(q.PharmacyIDs) > 0 {
		argCount++
		query += fmt.Sprintf(` AND pi.pharmacy_id = ANY($%d)`, argCount)
		args = append(args, q.PharmacyIDs)
	}

	if q.Near != nil {
		latParam := fmt.Sprintf("$%d::float8", argCount+1)
		lngParam := fmt.Sprintf("$%d::float8", argCount+2)
		radiusParam := fmt.Sprintf("$%d::float8", argCount+3)
		argCount += 3

		distance := geo.HaversineSQL(geo.SafeCoordinateSQL("ph.lat"), geo.SafeCoordinateSQL("ph.lng"), latParam, lngParam)
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM pharmacies ph
			WHERE ph.id = pi.pharmacy_id AND %s <= %s
		)`, distance, radiusParam)
		args = append(args, q.Near.Origin.Lat, q.Near.Origin.Lng, q.Near.RadiusKm+pushdownSlackKm)
	}

	query += ` ORDER BY pi.pharmacy_id, pi.package_id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.InventoryRow
	for rows.Next() {
		row := &models.InventoryRow{}
		err := rows.Scan(&row.PharmacyID, &row.PackageID, &row.PriceCents, &row.Currency, &row.StockQuantity, &row.LastUpdated, &row.BrandName)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
