package project

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/project"
	"github.com/gestionale/backend/internal/domain/shared"
)

// ArchiveStore stores project files under a per-project directory
type ArchiveStore interface {
	// Store writes a file into the project's archive directory
	Store(projectID uuid.UUID, fileName string, r io.Reader) error
	// Open opens an archived file for reading
	Open(projectID uuid.UUID, fileName string) (io.ReadCloser, error)
	// Remove deletes an archived file
	Remove(projectID uuid.UUID, fileName string) error
}

// ProjectService handles project and time-tracking operations
type ProjectService struct {
	projectRepo project.ProjectRepository
	contactRepo partner.ContactRepository
	archive     ArchiveStore
	eventBus    shared.EventPublisher
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo project.ProjectRepository, contactRepo partner.ContactRepository, archive ArchiveStore, eventBus shared.EventPublisher) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		contactRepo: contactRepo,
		archive:     archive,
		eventBus:    eventBus,
	}
}

// Create creates a new project. The client must resolve in the address book.
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	if _, err := s.contactRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	p, err := project.NewProject(req.Name, req.ClientID, req.HourlyRate)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, p)

	response := ToProjectResponse(p)
	return &response, nil
}

// GetByID retrieves a project by id
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProjectResponse(p)
	return &response, nil
}

// List retrieves projects with filtering and pagination
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) (*shared.Paginated[ProjectResponse], error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != "" {
		domainFilter.Filters["client_id"] = filter.ClientID
	}

	projects, err := s.projectRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	total, err := s.projectRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	page := shared.NewPaginated(ToProjectResponses(projects), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a project's descriptive fields
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateDetails(req.Name, req.Description, req.HourlyRate); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToProjectResponse(p)
	return &response, nil
}

// ChangeStatus moves a project to a new lifecycle status
func (s *ProjectService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.ChangeStatus(project.ProjectStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, p)

	response := ToProjectResponse(p)
	return &response, nil
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return shared.WrapStorageError(err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, project.NewProjectDeletedEvent(p))
	}

	return nil
}

// AddPhase appends a phase to a project
func (s *ProjectService) AddPhase(ctx context.Context, id uuid.UUID, req AddPhaseRequest) (*ProjectResponse, error) {
	return s.mutate(ctx, id, func(p *project.Project) error {
		_, err := p.AddPhase(req.Name, req.DueDate)
		return err
	})
}

// TogglePhase flips a phase's completed flag
func (s *ProjectService) TogglePhase(ctx context.Context, id, phaseID uuid.UUID) (*ProjectResponse, error) {
	return s.mutate(ctx, id, func(p *project.Project) error {
		return p.TogglePhase(phaseID)
	})
}

// RemovePhase deletes a phase
func (s *ProjectService) RemovePhase(ctx context.Context, id, phaseID uuid.UUID) (*ProjectResponse, error) {
	return s.mutate(ctx, id, func(p *project.Project) error {
		return p.RemovePhase(phaseID)
	})
}

// AddActivity records a time entry. Billable defaults to true when omitted.
func (s *ProjectService) AddActivity(ctx context.Context, id uuid.UUID, req AddActivityRequest) (*ProjectResponse, error) {
	billable := req.Billable == nil || *req.Billable
	return s.mutate(ctx, id, func(p *project.Project) error {
		_, err := p.AddActivity(req.Date, req.Hours, req.Description, billable)
		return err
	})
}

// RemoveActivity deletes a time entry
func (s *ProjectService) RemoveActivity(ctx context.Context, id, activityID uuid.UUID) (*ProjectResponse, error) {
	return s.mutate(ctx, id, func(p *project.Project) error {
		return p.RemoveActivity(activityID)
	})
}

// ArchiveFile copies a file into the project's archive directory and records
// its name on the aggregate.
func (s *ProjectService) ArchiveFile(ctx context.Context, id uuid.UUID, fileName string, r io.Reader) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.archive.Store(id, fileName, r); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	p.RegisterArchivedFile(fileName)
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToProjectResponse(p)
	return &response, nil
}

// OpenArchivedFile opens an archived file for download
func (s *ProjectService) OpenArchivedFile(ctx context.Context, id uuid.UUID, fileName string) (io.ReadCloser, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, name := range p.ArchivedFiles {
		if name == fileName {
			return s.archive.Open(id, fileName)
		}
	}
	return nil, shared.ErrNotFound
}

// RemoveArchivedFile deletes an archived file and unregisters it
func (s *ProjectService) RemoveArchivedFile(ctx context.Context, id uuid.UUID, fileName string) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.archive.Remove(id, fileName); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	p.UnregisterArchivedFile(fileName)
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToProjectResponse(p)
	return &response, nil
}

func (s *ProjectService) mutate(ctx context.Context, id uuid.UUID, fn func(*project.Project) error) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, p)

	response := ToProjectResponse(p)
	return &response, nil
}

func (s *ProjectService) publishEvents(ctx context.Context, p *project.Project) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, p.GetDomainEvents()...)
	p.ClearDomainEvents()
}
