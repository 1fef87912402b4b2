package models

import (
	"encoding/json"
)

type Pharmacy struct {
	ID           string          `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Country      *string         `json:"country" db:"country"`
	City         *string         `json:"city" db:"city"`
	Address      *string         `json:"address" db:"address"`
	Lat          *string         `json:"lat" db:"lat"` // Stored as text, may not parse
	Lng          *string         `json:"lng" db:"lng"`
	Phone        *string         `json:"phone" db:"phone"`
	OpeningHours json.RawMessage `json:"opening_hours,omitempty" db:"opening_hours"` // JSONB, passed through untouched
}
