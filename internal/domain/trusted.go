package domain

import "time"

// TrustedCircle is a directed edge: UserID trusts TrustedUserID. The pair is
// unique and self-edges are forbidden.
type TrustedCircle struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	TrustedUserID uint      `json:"trusted_user_id"`
	Relationship  string    `json:"relationship"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
