package domain

import "time"

type UserStatus string

const (
	UserActive              UserStatus = "ACTIVE"
	UserSuspended           UserStatus = "SUSPENDED"
	UserBanned              UserStatus = "BANNED"
	UserPendingVerification UserStatus = "PENDING_VERIFICATION"
)

type User struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone,omitempty"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
