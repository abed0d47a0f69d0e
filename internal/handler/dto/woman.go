// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// CreateWomanRequest represents the request body for creating a record.
type CreateWomanRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Age         int    `json:"age"`
	Region      string `json:"region"`
	Department  string `json:"department"`
	Commune     string `json:"commune"`
	Activity    string `json:"activity"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// UpdateWomanRequest represents a partial update. Absent fields leave
// the stored value unchanged.
type UpdateWomanRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Age         *int    `json:"age,omitempty"`
	Region      *string `json:"region,omitempty"`
	Department  *string `json:"department,omitempty"`
	Commune     *string `json:"commune,omitempty"`
	Activity    *string `json:"activity,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
