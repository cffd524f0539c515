package addressbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/gestionale/backend/internal/domain/partner"
)

// CreateContactRequest represents a request to create a contact
type CreateContactRequest struct {
	Type    string `json:"type" binding:"required,oneof=CLIENT SUPPLIER"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Company string `json:"company" binding:"max=200"`
	TaxID   string `json:"tax_id" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Notes   string `json:"notes"`
}

// UpdateContactRequest represents a request to update a contact
type UpdateContactRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Company string `json:"company" binding:"max=200"`
	TaxID   string `json:"tax_id" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Notes   string `json:"notes"`
}

// ContactListFilter carries list query options
type ContactListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=CLIENT SUPPLIER"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	DisplayName string    `json:"display_name"`
	TaxID       string    `json:"tax_id"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToContactResponse converts a domain contact into its API representation
func ToContactResponse(c *partner.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		Type:        c.Type.String(),
		Name:        c.Name,
		Company:     c.Company,
		DisplayName: c.DisplayName(),
		TaxID:       c.TaxID,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToContactResponses converts a slice of contacts
func ToContactResponses(contacts []partner.Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, ToContactResponse(&contacts[i]))
	}
	return responses
}
