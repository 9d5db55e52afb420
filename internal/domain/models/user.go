package models

import "time"

// User represents a registered customer.
type User struct {
	ID        int64
	FullName  string
	Email     string
	Mobile    string
	PassHash  []byte
	CreatedAt time.Time
}

// PasswordResetToken is a single-use token mailed to a user who forgot
// their password.
type PasswordResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}
