package domain

import "time"

type User struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	TaxID          *string   `json:"tax_id,omitempty" db:"tax_id"`
	PimentaBalance int64     `json:"pimenta_balance" db:"pimenta_balance"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
