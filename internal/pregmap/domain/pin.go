package domain

import "time"

// PINRecord is the stored hash of an account's secondary PIN.
type PINRecord struct {
	AccountID string
	PINHash   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
