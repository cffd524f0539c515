package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/gestionale/backend/internal/domain/shared"
)

// ProjectRepository defines the persistence interface for projects
type ProjectRepository interface {
	shared.Repository[Project]
	// FindByStatus finds all projects in the given status
	FindByStatus(ctx context.Context, status ProjectStatus) ([]Project, error)
	// FindByClient finds all projects for a client
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Project, error)
}
