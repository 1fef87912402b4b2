package models

// Product is the canonical medicinal entity, one row per substance, strength and form.
type Product struct {
	ID           string         `json:"id" db:"id"`
	INNName      string         `json:"inn_name" db:"inn_name"` // International nonproprietary name, e.g. "ibuprofen"
	ATCCode      *string        `json:"atc_code" db:"atc_code"` // Optional WHO ATC code
	Form         *string        `json:"form" db:"form"`         // tablet, capsule, cream
	Strength     *string        `json:"strength" db:"strength"` // 400 mg

	// Loaded on demand, in repository order.
	Translations []*Translation `json:"translations,omitempty" db:"-"`
}

type Brand struct {
	ID           string  `json:"id" db:"id"`
	ProductID    string  `json:"product_id" db:"product_id"`
	BrandName    string  `json:"brand_name" db:"brand_name"`
	Manufacturer *string `json:"manufacturer" db:"manufacturer"`
}

// Package is a sellable unit of a product, e.g. "20 tablets, DE market".
type Package struct {
	ID          string  `json:"id" db:"id"`
	ProductID   string  `json:"product_id" db:"product_id"`
	BrandID     *string `json:"brand_id" db:"brand_id"`
	GTIN        *string `json:"gtin" db:"gtin"`
	PackSize    *string `json:"pack_size" db:"pack_size"`       // "20 tablets"
	CountryCode *string `json:"country_code" db:"country_code"` // ISO 3166-1 alpha-2
	Brand       *Brand  `json:"brand,omitempty" db:"-"`
}

// BrandMismatch reports whether the package references a brand that belongs to
// another product.
func (p *Package) BrandMismatch() bool {
	return p.Brand != nil && p.Brand.ProductID != "" && p.Brand.ProductID != p.ProductID
}

type Translation struct {
	ID                    string  `json:"id" db:"id"`
	ProductID             string  `json:"product_id" db:"product_id"`
	LanguageCode          string  `json:"language_code" db:"language_code"` // "de", "it", "fr", "en"
	TranslatedName        string  `json:"translated_name" db:"translated_name"`
	TranslatedDescription *string `json:"translated_description" db:"translated_description"`
}
