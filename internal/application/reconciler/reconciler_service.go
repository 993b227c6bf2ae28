package reconciler

import (
	"context"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

type Outcome string

const (
	// OutcomeApplied: the state machine accepted the transition (and, for a
	// payment, the credit committed with it).
	OutcomeApplied Outcome = "applied"
	// OutcomeUnchanged: redelivered or out-of-order event, nothing to do.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeUnresolved: the event named no transaction we know; acknowledged
	// so the provider stops redelivering.
	OutcomeUnresolved Outcome = "unresolved"
	// OutcomeIgnored: unparseable or unidentified payload, acknowledged.
	OutcomeIgnored Outcome = "ignored"
)

type Result struct {
	Outcome          Outcome
	Transaction      *domain.Transaction
	CreditedPimentas int64
	NewBalance       int64
	Credited         bool
}

type IReconcilerService interface {
	HandleWebhook(ctx context.Context, provider domain.Provider, raw []byte, signatureHeader string) (*Result, error)
}

// Notifier pushes settlement updates to connected clients after a commit.
type Notifier interface {
	NotifyPayment(userID string, transaction *domain.Transaction, newBalance *int64)
}

// NopNotifier is used when no realtime hub is wired in.
type NopNotifier struct{}

func (NopNotifier) NotifyPayment(string, *domain.Transaction, *int64) {}
