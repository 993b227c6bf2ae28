package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusAuthorized.Terminal())
	assert.True(t, StatusPaid.Terminal())
	assert.True(t, StatusDeclined.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestTransactionStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TransactionStatus
		to   TransactionStatus
		want bool
	}{
		{"pending to authorized", StatusPending, StatusAuthorized, true},
		{"pending to paid", StatusPending, StatusPaid, true},
		{"pending to declined", StatusPending, StatusDeclined, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"pending to pending is a no-op", StatusPending, StatusPending, false},
		{"authorized to paid", StatusAuthorized, StatusPaid, true},
		{"authorized to declined", StatusAuthorized, StatusDeclined, false},
		{"authorized to canceled", StatusAuthorized, StatusCanceled, false},
		{"authorized to pending", StatusAuthorized, StatusPending, false},
		{"paid is absorbing", StatusPaid, StatusDeclined, false},
		{"paid to canceled", StatusPaid, StatusCanceled, false},
		{"declined is absorbing", StatusDeclined, StatusPaid, false},
		{"canceled is absorbing", StatusCanceled, StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestWebhookEventIdentified(t *testing.T) {
	assert.False(t, (&WebhookEvent{}).Identified())
	assert.True(t, (&WebhookEvent{ReferenceID: "ref"}).Identified())
	assert.True(t, (&WebhookEvent{ChargeID: "ch_1"}).Identified())
	assert.True(t, (&WebhookEvent{PixID: "pix_1"}).Identified())
}
