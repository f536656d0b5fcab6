package models

// User represents a user account stored in folio-server.
type User struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	PasswordHash    string `json:"password_hash"`
	Role            string `json:"role"`
	DisplayCurrency string `json:"display_currency,omitempty"`
}
