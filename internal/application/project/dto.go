package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/project"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	ClientID    uuid.UUID       `json:"client_id" binding:"required"`
	Description string          `json:"description"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
}

// ChangeStatusRequest moves a project to a new lifecycle status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=IN_PROGRESS COMPLETED ON_HOLD CANCELLED"`
}

// AddPhaseRequest appends a phase
type AddPhaseRequest struct {
	Name    string     `json:"name" binding:"required,min=1,max=200"`
	DueDate *time.Time `json:"due_date"`
}

// AddActivityRequest records a time entry
type AddActivityRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Hours       decimal.Decimal `json:"hours" binding:"required"`
	Description string          `json:"description"`
	Billable    *bool           `json:"billable"`
}

// ProjectListFilter carries list query options
type ProjectListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=IN_PROGRESS COMPLETED ON_HOLD CANCELLED"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PhaseResponse represents a phase in API responses
type PhaseResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Completed bool       `json:"completed"`
}

// ActivityResponse represents a time entry in API responses
type ActivityResponse struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
	Billable    bool            `json:"billable"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	ClientID        uuid.UUID          `json:"client_id"`
	Status          string             `json:"status"`
	Description     string             `json:"description"`
	HourlyRate      decimal.Decimal    `json:"hourly_rate"`
	Phases          []PhaseResponse    `json:"phases"`
	Activities      []ActivityResponse `json:"activities"`
	ArchivedFiles   []string           `json:"archived_files"`
	TotalHours      decimal.Decimal    `json:"total_hours"`
	BillableHours   decimal.Decimal    `json:"billable_hours"`
	BillableCost    string             `json:"billable_cost"`
	PhasesCompleted int                `json:"phases_completed"`
	PhasesTotal     int                `json:"phases_total"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToProjectResponse converts a domain project into its API representation
func ToProjectResponse(p *project.Project) ProjectResponse {
	phases := make([]PhaseResponse, 0, len(p.Phases))
	for _, ph := range p.Phases {
		phases = append(phases, PhaseResponse{ID: ph.ID, Name: ph.Name, DueDate: ph.DueDate, Completed: ph.Completed})
	}

	activities := make([]ActivityResponse, 0, len(p.Activities))
	for _, a := range p.Activities {
		activities = append(activities, ActivityResponse{ID: a.ID, Date: a.Date, Hours: a.Hours, Description: a.Description, Billable: a.Billable})
	}

	completed, total := p.PhaseProgress()

	return ProjectResponse{
		ID:              p.ID,
		Name:            p.Name,
		ClientID:        p.ClientID,
		Status:          p.Status.String(),
		Description:     p.Description,
		HourlyRate:      p.HourlyRate,
		Phases:          phases,
		Activities:      activities,
		ArchivedFiles:   p.ArchivedFiles,
		TotalHours:      p.TotalHours(),
		BillableHours:   p.BillableHours(),
		BillableCost:    p.BillableCost().StringFixed(2),
		PhasesCompleted: completed,
		PhasesTotal:     total,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProjectResponses converts a slice of projects
func ToProjectResponses(projects []project.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, ToProjectResponse(&projects[i]))
	}
	return responses
}
