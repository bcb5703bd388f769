package audit

import "time"

// TransactionRecord is the audit shape written for order and payment
// events: the raw payload plus every correlation field the engine managed
// to derive. Rows are append-only and never updated.
type TransactionRecord struct {
	ID              int64     `json:"id"`
	TransactionID   string    `json:"transactionId"`
	ProviderOrderID string    `json:"providerOrderId"`
	CatalogItemID   string    `json:"catalogItemId"`
	LocationID      string    `json:"locationId"`
	AmountCents     int64     `json:"amountCents"`
	Currency        string    `json:"currency"`
	OrderSessionID  string    `json:"orderSessionId"`
	RoomNumber      string    `json:"roomNumber"`
	Payload         []byte    `json:"payload"`
	CreatedAt       time.Time `json:"createdAt"`
}

// WebhookRecord is the audit shape written for every other accepted event
// type.
type WebhookRecord struct {
	ID              int64     `json:"id"`
	EventType       string    `json:"eventType"`
	ProviderOrderID string    `json:"providerOrderId"`
	LocationID      string    `json:"locationId"`
	Payload         []byte    `json:"payload"`
	CreatedAt       time.Time `json:"createdAt"`
}
