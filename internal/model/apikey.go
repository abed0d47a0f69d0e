package model

import "time"

// APIKey represents a bearer credential for the records API.
// The token itself is the primary identifier; revocation is a soft
// delete so the record survives for auditing.
type APIKey struct {
	Key         string    `json:"key"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	LastUsed    time.Time `json:"last_used"`
	IsActive    bool      `json:"is_active"`
}
