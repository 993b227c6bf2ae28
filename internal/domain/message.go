package domain

import "time"

// Message is the quota-gated resource: sending one may cost pimentas, and its
// creation commits in the same atomic unit as the debit that pays for it.
type Message struct {
	ID           string    `json:"id" db:"id"`
	SenderID     string    `json:"sender_id" db:"sender_id"`
	RecipientID  string    `json:"recipient_id" db:"recipient_id"`
	Body         string    `json:"body" db:"body"`
	CostPimentas int64     `json:"cost_pimentas" db:"cost_pimentas"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
