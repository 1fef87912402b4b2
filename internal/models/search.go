package models

import (
	"encoding/json"
	"time"
)

const (
	SortByDistance = "distance"
	SortByPrice    = "price"
	SortByName     = "name"
)

// PharmacySearchFilter holds the criteria for a pharmacy search over a set of packages
type PharmacySearchFilter struct {
	PackageIDs  []string `json:"package_ids"`             // Requested packages, duplicates ignored
	Lat         *float64 `json:"lat,omitempty"`           // Search origin latitude
	Lng         *float64 `json:"lng,omitempty"`           // Search origin longitude
	RadiusKm    *float64 `json:"radius_km,omitempty"`     // Default 100 km when an origin is given
	MustHaveAll bool     `json:"must_have_all,omitempty"` // Pharmacy must stock every requested package
	SortBy      string   `json:"sort_by,omitempty"`       // distance (default), price, name
	Limit       int      `json:"limit,omitempty"`         // Max pharmacies (default: 50)
}

// HasOrigin reports whether both origin coordinates were supplied.
func (f *PharmacySearchFilter) HasOrigin() bool {
	return f.Lat != nil && f.Lng != nil
}

type PharmacyPackageLine struct {
	PackageID     string     `json:"package_id"`
	BrandName     *string    `json:"brand_name,omitempty"`
	PriceCents    *int64     `json:"price_cents"`
	Currency      *string    `json:"currency"`
	StockQuantity int        `json:"stock_quantity"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

type PharmacyResult struct {
	PharmacyID    string                 `json:"pharmacy_id"`
	PharmacyName  string                 `json:"pharmacy_name"`
	Address       *string                `json:"address"`
	City          *string                `json:"city"`
	Country       *string                `json:"country"`
	Lat           *string                `json:"lat"`
	Lng           *string                `json:"lng"`
	Phone         *string                `json:"phone,omitempty"`
	OpeningHours  json.RawMessage        `json:"opening_hours,omitempty"`
	DistanceKm    *float64               `json:"distance_km"`
	MinPriceCents *int64                 `json:"min_price_cents"`
	Packages      []*PharmacyPackageLine `json:"packages"`
}

// ProductSummary is the typeahead view of a product
type ProductSummary struct {
	ProductID   string  `json:"product_id"`
	INNName     string  `json:"inn_name"`
	DisplayName string  `json:"display_name"`
	Form        *string `json:"form"`
	Strength    *string `json:"strength"`
}

// AvailabilityRequest holds the location and language options for a product availability view
type AvailabilityRequest struct {
	Language    string
	Lat         *float64
	Lng         *float64
	RadiusKm    *float64
	OnlyInStock bool
}

// DetailedSearchRequest is a text search that loads full availability per matched product
type DetailedSearchRequest struct {
	Query    string
	Language string
	Limit    int
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
}

type PharmacyLocation struct {
	PharmacyID      string     `json:"pharmacy_id"`
	PharmacyName    string     `json:"pharmacy_name"`
	PharmacyAddress *string    `json:"pharmacy_address"`
	PharmacyCity    *string    `json:"pharmacy_city"`
	PharmacyCountry *string    `json:"pharmacy_country"`
	DistanceKm      *float64   `json:"distance_km"`
	PriceCents      *int64     `json:"price_cents"`
	Currency        *string    `json:"currency"`
	StockQuantity   int        `json:"stock_quantity"`
	LastUpdated     *time.Time `json:"last_updated,omitempty"`
}

type PackageAvailability struct {
	PackageID         string              `json:"package_id"`
	GTIN              *string             `json:"gtin"`
	PackSize          *string             `json:"pack_size"`
	BrandName         *string             `json:"brand_name"`
	Manufacturer      *string             `json:"manufacturer"`
	CountryCode       *string             `json:"country_code"`
	ImageURLs         []string            `json:"image_urls"`
	PharmacyLocations []*PharmacyLocation `json:"pharmacy_locations"`
}

// ProductAvailability is a product with everything needed to show where it can be bought
type ProductAvailability struct {
	ProductID         string                 `json:"product_id"`
	INNName           string                 `json:"inn_name"`
	DisplayName       string                 `json:"display_name"`
	Description       *string                `json:"description"`
	ATCCode           *string                `json:"atc_code"`
	Form              *string                `json:"form"`
	Strength          *string                `json:"strength"`
	BrandNames        []string               `json:"brand_names"`
	AvailablePackages []*PackageAvailability `json:"available_packages"`
	Language          string                 `json:"language"`
}
