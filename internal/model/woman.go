// Package model defines domain entities for the application.
package model

import "time"

// Woman represents one socio-economic record.
type Woman struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Age         int       `json:"age"`
	Region      string    `json:"region"`
	Department  string    `json:"department"`
	Commune     string    `json:"commune"`
	Activity    string    `json:"activity"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullName returns the display name used in statistics output.
func (w *Woman) FullName() string {
	return w.FirstName + " " + w.LastName
}
