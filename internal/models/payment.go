package models

import "time"

// Payment is the settled charge a registration is backed by.
type Payment struct {
	ID        string    `json:"id"`
	SessionID int64     `json:"session_id"`
	NsUserID  int64     `json:"ns_user_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
