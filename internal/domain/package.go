package domain

import "time"

// PimentaPackage is an immutable catalog entry: how many pimentas a purchase
// grants and what it costs.
type PimentaPackage struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Pimentas   int64     `json:"pimentas" db:"pimentas"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
