package http

import "github.com/aradsms/contactbook/internal/contact_service/domain"

// ContactRequest is the body of POST and PUT /v1/contacts.
type ContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type ContactResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type ListContactsResponse struct {
	Contacts   []ContactResponse `json:"contacts"`
	TotalCount int               `json:"total_count"`
}

func toContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
}

func toListContactsResponse(contacts []*domain.Contact) ListContactsResponse {
	resp := ListContactsResponse{Contacts: make([]ContactResponse, 0, len(contacts)), TotalCount: len(contacts)}
	for _, c := range contacts {
		resp.Contacts = append(resp.Contacts, toContactResponse(c))
	}
	return resp
}
