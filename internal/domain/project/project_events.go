package project

import (
	"github.com/google/uuid"

	"github.com/gestionale/backend/internal/domain/shared"
)

// Aggregate type constant
const (
	AggregateTypeProject = "Project"
)

// Event type constants
const (
	EventTypeProjectCreated       = "project.created"
	EventTypeProjectStatusChanged = "project.status_changed"
	EventTypeProjectPhasesChanged = "project.phases_changed"
	EventTypeProjectDeleted       = "project.deleted"
)

// ProjectCreatedEvent is published when a project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string    `json:"name"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, AggregateTypeProject, p.ID),
		Name:            p.Name,
		ClientID:        p.ClientID,
	}
}

// ProjectStatusChangedEvent is published when the lifecycle status changes.
// The calendar listens for it to rebuild automatic deadline events.
type ProjectStatusChangedEvent struct {
	shared.BaseDomainEvent
	Name   string        `json:"name"`
	Status ProjectStatus `json:"status"`
}

// NewProjectStatusChangedEvent creates a new ProjectStatusChangedEvent
func NewProjectStatusChangedEvent(p *Project) *ProjectStatusChangedEvent {
	return &ProjectStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectStatusChanged, AggregateTypeProject, p.ID),
		Name:            p.Name,
		Status:          p.Status,
	}
}

// ProjectPhasesChangedEvent is published when phases are added, removed or
// toggled. The calendar listens for it as well.
type ProjectPhasesChangedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProjectPhasesChangedEvent creates a new ProjectPhasesChangedEvent
func NewProjectPhasesChangedEvent(p *Project) *ProjectPhasesChangedEvent {
	return &ProjectPhasesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectPhasesChanged, AggregateTypeProject, p.ID),
		Name:            p.Name,
	}
}

// ProjectDeletedEvent is published when a project is removed
type ProjectDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProjectDeletedEvent creates a new ProjectDeletedEvent
func NewProjectDeletedEvent(p *Project) *ProjectDeletedEvent {
	return &ProjectDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectDeleted, AggregateTypeProject, p.ID),
		Name:            p.Name,
	}
}
