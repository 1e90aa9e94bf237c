package domain

import "strings"

// Contact is a single address book entry. ID is assigned by the repository on creation
// and never changes afterwards.
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// NewContact builds an unsaved contact with the three text fields trimmed.
// It performs no validation; see ValidateNewContact.
func NewContact(name, phone, email string) *Contact {
	return &Contact{
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
		Email: strings.TrimSpace(email),
	}
}
