package roomlink

import "time"

// RoomLink associates a messaging-platform user identity to an order
// session. Links are deactivated when the session closes.
type RoomLink struct {
	ID              int64     `json:"id"`
	OrderSessionID  string    `json:"orderSessionId"`
	MessengerUserID string    `json:"messengerUserId"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}
