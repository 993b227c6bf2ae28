package domain

// WebhookEvent is the decoded, authenticated provider callback. It lives only
// for the duration of one reconciliation call and is never persisted.
type WebhookEvent struct {
	Provider    Provider
	ReferenceID string // internal transaction id echoed by the provider
	ChargeID    string // provider-assigned charge/order id
	PixID       string // provider-assigned instant-transfer/QR id
	RawStatus   string // provider-native status string
	Raw         []byte // exact request bytes, kept for signature recomputation
}

// Identified reports whether the event carries any identifier that could
// resolve it to a local transaction.
func (e *WebhookEvent) Identified() bool {
	return e.ReferenceID != "" || e.ChargeID != "" || e.PixID != ""
}
