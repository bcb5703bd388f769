package order

import "time"

// Status represents the lifecycle state of a placed order.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

// Order represents a placed order belonging to an order session. It
// transitions to Completed only when the owning session does.
type Order struct {
	ID             int64     `json:"id"`
	OrderSessionID string    `json:"orderSessionId"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
