package models

import (
	"time"
)

// InventoryRow is one pharmacy stocking one package, as read for a search.
// BrandName is denormalised through the package's brand.
type InventoryRow struct {
	PharmacyID    string     `json:"pharmacy_id" db:"pharmacy_id"`
	PackageID     string     `json:"package_id" db:"package_id"`
	PriceCents    *int64     `json:"price_cents" db:"price_cents"`
	Currency      *string    `json:"currency" db:"currency"`             // ISO 4217
	StockQuantity *int       `json:"stock_quantity" db:"stock_quantity"` // nil means unknown, treated as unavailable
	LastUpdated   *time.Time `json:"last_updated" db:"last_updated"`
	BrandName     *string    `json:"brand_name" db:"brand_name"`
}

// InStock reports whether the row counts as available.
func (r *InventoryRow) InStock() bool {
	return r.StockQuantity != nil && *r.StockQuantity > 0
}
