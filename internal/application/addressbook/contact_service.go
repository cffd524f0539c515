package addressbook

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/shared"
)

// ContactService handles address-book operations
type ContactService struct {
	contactRepo partner.ContactRepository
	eventBus    shared.EventPublisher
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo partner.ContactRepository, eventBus shared.EventPublisher) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		eventBus:    eventBus,
	}
}

// Create creates a new contact
func (s *ContactService) Create(ctx context.Context, req CreateContactRequest) (*ContactResponse, error) {
	contact, err := partner.NewContact(partner.ContactType(req.Type), req.Name)
	if err != nil {
		return nil, err
	}

	if err := contact.UpdateDetails(req.Name, req.Company, req.TaxID, req.Email, req.Phone, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, contact)

	response := ToContactResponse(contact)
	return &response, nil
}

// GetByID retrieves a contact by id
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// List retrieves contacts with filtering and pagination
func (s *ContactService) List(ctx context.Context, filter ContactListFilter) (*shared.Paginated[ContactResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	var contacts []partner.Contact
	var err error
	if filter.Type != "" {
		contacts, err = s.contactRepo.FindByType(ctx, partner.ContactType(filter.Type), domainFilter)
		domainFilter.Filters["type"] = filter.Type
	} else {
		contacts, err = s.contactRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	total, err := s.contactRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	page := shared.NewPaginated(ToContactResponses(contacts), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Search finds contacts matching a free-text query
func (s *ContactService) Search(ctx context.Context, query string) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.Search(ctx, query)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	return ToContactResponses(contacts), nil
}

// Update updates a contact's details
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := contact.UpdateDetails(req.Name, req.Company, req.TaxID, req.Email, req.Phone, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, contact)

	response := ToContactResponse(contact)
	return &response, nil
}

// Delete removes a contact. References from projects and documents are left
// dangling on purpose; read paths render them as deleted.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return shared.WrapStorageError(err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, partner.NewContactDeletedEvent(contact))
	}

	return nil
}

// csvHeader is the column layout for contact import/export
var csvHeader = []string{"type", "name", "company", "tax_id", "email", "phone", "address", "notes"}

// ExportCSV writes every contact to w in CSV form
func (s *ContactService) ExportCSV(ctx context.Context, w io.Writer) error {
	filter := shared.DefaultFilter()
	filter.PageSize = -1 // no pagination for exports
	contacts, err := s.contactRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.WrapStorageError(err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range contacts {
		c := &contacts[i]
		record := []string{c.Type.String(), c.Name, c.Company, c.TaxID, c.Email, c.Phone, c.Address, c.Notes}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads contacts from r and creates them. Rows that fail
// validation abort the import with a row-numbered error.
func (s *ContactService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return 0, shared.NewDomainErrorf("INVALID_INPUT", "CSV parse failed: %v", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	// skip a header row if present
	start := 0
	if records[0][0] == csvHeader[0] {
		start = 1
	}

	imported := 0
	for i, record := range records[start:] {
		contact, err := partner.NewContact(partner.ContactType(record[0]), record[1])
		if err != nil {
			return imported, shared.NewDomainErrorf("INVALID_INPUT", "row %d: %v", start+i+1, err)
		}
		if err := contact.UpdateDetails(record[1], record[2], record[3], record[4], record[5], record[6], record[7]); err != nil {
			return imported, shared.NewDomainErrorf("INVALID_INPUT", "row %d: %v", start+i+1, err)
		}
		if err := s.contactRepo.Save(ctx, contact); err != nil {
			return imported, shared.WrapStorageError(fmt.Errorf("row %d: %w", start+i+1, err))
		}
		imported++
	}

	return imported, nil
}

func (s *ContactService) publishEvents(ctx context.Context, contact *partner.Contact) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, contact.GetDomainEvents()...)
	contact.ClearDomainEvents()
}
