package partner

import (
	"strings"
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
)

// ContactType distinguishes clients from suppliers in the address book
type ContactType string

const (
	ContactTypeClient   ContactType = "CLIENT"
	ContactTypeSupplier ContactType = "SUPPLIER"
)

// IsValid checks if the contact type is valid
func (t ContactType) IsValid() bool {
	return t == ContactTypeClient || t == ContactTypeSupplier
}

// String returns the string representation of ContactType
func (t ContactType) String() string {
	return string(t)
}

// Contact is the address-book aggregate root. Projects and documents
// reference contacts by id; deleting a contact does not cascade, read paths
// render a missing client as deleted.
type Contact struct {
	shared.BaseAggregateRoot
	Type    ContactType `json:"type" gorm:"not null;index"`
	Name    string      `json:"name" gorm:"not null"`
	Company string      `json:"company"`
	TaxID   string      `json:"tax_id"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	Notes   string      `json:"notes"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates a new address-book contact
func NewContact(contactType ContactType, name string) (*Contact, error) {
	if !contactType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONTACT_TYPE", "Contact type must be CLIENT or SUPPLIER")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}

	c := &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              contactType,
		Name:              strings.TrimSpace(name),
	}

	c.AddDomainEvent(NewContactCreatedEvent(c))

	return c, nil
}

// UpdateDetails replaces the contact's descriptive fields
func (c *Contact) UpdateDetails(name, company, taxID, email, phone, address, notes string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}

	c.Name = strings.TrimSpace(name)
	c.Company = company
	c.TaxID = taxID
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewContactUpdatedEvent(c))

	return nil
}

// ChangeType switches the contact between client and supplier
func (c *Contact) ChangeType(contactType ContactType) error {
	if !contactType.IsValid() {
		return shared.NewDomainError("INVALID_CONTACT_TYPE", "Contact type must be CLIENT or SUPPLIER")
	}
	c.Type = contactType
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MatchesQuery reports whether the contact matches a case-insensitive search
// over name, company, tax id and email.
func (c *Contact) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Company), q) ||
		strings.Contains(strings.ToLower(c.TaxID), q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}

// DisplayName returns the company name when set, otherwise the person name
func (c *Contact) DisplayName() string {
	if c.Company != "" {
		return c.Company
	}
	return c.Name
}
