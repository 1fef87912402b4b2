package models

type ProductImage struct {
	ID        string `json:"id" db:"id"`
	PackageID string `json:"package_id" db:"package_id"`
	ImageURL  string `json:"image_url" db:"image_url"` // Object key in the image bucket, or an absolute URL
	IsPrimary bool   `json:"is_primary" db:"is_primary"`
}
