package session

import "time"

// Status represents the lifecycle state of an order session.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Session represents one open tab tied to a room and a provider-side
// catalog item. The session id is a 21-digit numeric string that is also
// embedded into the generated catalog item's name as a correlation token.
type Session struct {
	ID                 string     `json:"id"`
	RoomNumber         string     `json:"roomNumber"`
	CatalogItemID      string     `json:"catalogItemId"`
	CatalogVariationID string     `json:"catalogVariationId"`
	ProviderOrderID    string     `json:"providerOrderId"`
	IsActive           bool       `json:"isActive"`
	Status             Status     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	ClosedAt           *time.Time `json:"closedAt,omitempty"`
}
