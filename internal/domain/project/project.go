package project

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
)

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusOnHold     ProjectStatus = "ON_HOLD"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// IsValid checks if the project status is valid
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// Phase is a named milestone within a project. It is a value object stored
// inside the Project aggregate as JSON.
type Phase struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Completed bool       `json:"completed"`
}

// Phases is a slice of Phase that implements GORM Scanner/Valuer for JSON storage
type Phases []Phase

// Value implements driver.Valuer for GORM
func (p Phases) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for GORM
func (p *Phases) Scan(value interface{}) error {
	if value == nil {
		*p = Phases{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Phases: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Phases{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Activity is a single time entry. It is a value object stored inside the
// Project aggregate as JSON.
type Activity struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
	Billable    bool            `json:"billable"`
}

// UnmarshalJSON normalizes legacy entries persisted before the billable flag
// existed: a missing flag means billable.
func (a *Activity) UnmarshalJSON(data []byte) error {
	type activityJSON struct {
		ID          uuid.UUID       `json:"id"`
		Date        time.Time       `json:"date"`
		Hours       decimal.Decimal `json:"hours"`
		Description string          `json:"description"`
		Billable    *bool           `json:"billable"`
	}

	var raw activityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.ID = raw.ID
	a.Date = raw.Date
	a.Hours = raw.Hours
	a.Description = raw.Description
	a.Billable = raw.Billable == nil || *raw.Billable

	return nil
}

// Activities is a slice of Activity that implements GORM Scanner/Valuer for JSON storage
type Activities []Activity

// Value implements driver.Valuer for GORM
func (a Activities) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for GORM
func (a *Activities) Scan(value interface{}) error {
	if value == nil {
		*a = Activities{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Activities: unsupported type")
	}

	if len(bytes) == 0 {
		*a = Activities{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// ArchivedFiles is the list of file names archived under the project's
// document directory, stored as JSON.
type ArchivedFiles []string

// Value implements driver.Valuer for GORM
func (f ArchivedFiles) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for GORM
func (f *ArchivedFiles) Scan(value interface{}) error {
	if value == nil {
		*f = ArchivedFiles{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ArchivedFiles: unsupported type")
	}

	if len(bytes) == 0 {
		*f = ArchivedFiles{}
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// Project is the time-tracking aggregate root. Phases and activities live
// inside the aggregate as JSON columns; they have no identity outside it.
type Project struct {
	shared.BaseAggregateRoot
	Name          string          `json:"name" gorm:"not null;index"`
	ClientID      uuid.UUID       `json:"client_id" gorm:"type:text;not null;index"`
	Status        ProjectStatus   `json:"status" gorm:"not null;index"`
	Description   string          `json:"description"`
	HourlyRate    decimal.Decimal `json:"hourly_rate" gorm:"type:decimal(12,2)"`
	Phases        Phases          `json:"phases" gorm:"type:text"`
	Activities    Activities      `json:"activities" gorm:"type:text"`
	ArchivedFiles ArchivedFiles   `json:"archived_files" gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project in InProgress status
func NewProject(name string, clientID uuid.UUID, hourlyRate decimal.Decimal) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Project requires a client")
	}
	if hourlyRate.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	p := &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		ClientID:          clientID,
		Status:            ProjectStatusInProgress,
		HourlyRate:        hourlyRate,
		Phases:            Phases{},
		Activities:        Activities{},
		ArchivedFiles:     ArchivedFiles{},
	}

	p.AddDomainEvent(NewProjectCreatedEvent(p))

	return p, nil
}

// UpdateDetails replaces the project's descriptive fields
func (p *Project) UpdateDetails(name, description string, hourlyRate decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if hourlyRate.IsNegative() {
		return shared.ErrInvalidAmount
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.HourlyRate = hourlyRate
	p.touch()

	return nil
}

// ChangeStatus moves the project to a new lifecycle status
func (p *Project) ChangeStatus(status ProjectStatus) error {
	if !status.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Invalid project status: %s", status)
	}
	p.Status = status
	p.touch()
	p.AddDomainEvent(NewProjectStatusChangedEvent(p))
	return nil
}

// AddPhase appends a new phase
func (p *Project) AddPhase(name string, dueDate *time.Time) (*Phase, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Phase name cannot be empty")
	}

	phase := Phase{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(name),
		DueDate: dueDate,
	}
	p.Phases = append(p.Phases, phase)
	p.touch()
	p.AddDomainEvent(NewProjectPhasesChangedEvent(p))

	return &p.Phases[len(p.Phases)-1], nil
}

// TogglePhase flips a phase's completed flag
func (p *Project) TogglePhase(phaseID uuid.UUID) error {
	for i := range p.Phases {
		if p.Phases[i].ID == phaseID {
			p.Phases[i].Completed = !p.Phases[i].Completed
			p.touch()
			p.AddDomainEvent(NewProjectPhasesChangedEvent(p))
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Phase not found")
}

// RemovePhase deletes a phase
func (p *Project) RemovePhase(phaseID uuid.UUID) error {
	for i := range p.Phases {
		if p.Phases[i].ID == phaseID {
			p.Phases = append(p.Phases[:i], p.Phases[i+1:]...)
			p.touch()
			p.AddDomainEvent(NewProjectPhasesChangedEvent(p))
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Phase not found")
}

// AddActivity records a time entry
func (p *Project) AddActivity(date time.Time, hours decimal.Decimal, description string, billable bool) (*Activity, error) {
	if hours.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Activity hours cannot be negative")
	}

	activity := Activity{
		ID:          uuid.New(),
		Date:        date,
		Hours:       hours,
		Description: description,
		Billable:    billable,
	}
	p.Activities = append(p.Activities, activity)
	p.touch()

	return &p.Activities[len(p.Activities)-1], nil
}

// RemoveActivity deletes a time entry
func (p *Project) RemoveActivity(activityID uuid.UUID) error {
	for i := range p.Activities {
		if p.Activities[i].ID == activityID {
			p.Activities = append(p.Activities[:i], p.Activities[i+1:]...)
			p.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Activity not found")
}

// RegisterArchivedFile records a file name archived under the project's
// document directory. Duplicate names are ignored.
func (p *Project) RegisterArchivedFile(fileName string) {
	for _, existing := range p.ArchivedFiles {
		if existing == fileName {
			return
		}
	}
	p.ArchivedFiles = append(p.ArchivedFiles, fileName)
	p.touch()
}

// UnregisterArchivedFile removes a file name from the archive list
func (p *Project) UnregisterArchivedFile(fileName string) {
	for i, existing := range p.ArchivedFiles {
		if existing == fileName {
			p.ArchivedFiles = append(p.ArchivedFiles[:i], p.ArchivedFiles[i+1:]...)
			p.touch()
			return
		}
	}
}

// TotalHours sums all recorded activity hours
func (p *Project) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Activities {
		total = total.Add(a.Hours)
	}
	return total
}

// BillableHours sums hours of billable activities only
func (p *Project) BillableHours() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Activities {
		if a.Billable {
			total = total.Add(a.Hours)
		}
	}
	return total
}

// BillableCost returns billable hours times the hourly rate, rounded half-up
// to 2 decimal places.
func (p *Project) BillableCost() valueobject.Money {
	return valueobject.NewMoneyEUR(p.BillableHours().Mul(p.HourlyRate)).RoundHalfUp(2)
}

// PhaseProgress returns completed and total phase counts
func (p *Project) PhaseProgress() (completed, total int) {
	for _, ph := range p.Phases {
		if ph.Completed {
			completed++
		}
	}
	return completed, len(p.Phases)
}

// PendingPhases returns incomplete phases that carry a due date, the input
// to automatic calendar event generation.
func (p *Project) PendingPhases() []Phase {
	var pending []Phase
	for _, ph := range p.Phases {
		if !ph.Completed && ph.DueDate != nil {
			pending = append(pending, ph)
		}
	}
	return pending
}

func (p *Project) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
