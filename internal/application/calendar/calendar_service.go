package calendar

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/calendar"
	"github.com/gestionale/backend/internal/domain/project"
	"github.com/gestionale/backend/internal/domain/settings"
	"github.com/gestionale/backend/internal/domain/shared"
)

// MailSender delivers a message through the configured SMTP account
type MailSender interface {
	Send(ctx context.Context, cfg settings.SMTPConfig, to, subject, body string) error
}

// CalendarService manages manual events and regenerates the derived ones
// from project phases and invoice due dates.
type CalendarService struct {
	eventRepo    calendar.EventRepository
	projectRepo  project.ProjectRepository
	documentRepo billing.DocumentRepository
	settingsRepo settings.SettingsRepository
	mailSender   MailSender
	txManager    shared.TransactionManager
	logger       *zap.Logger
	now          func() time.Time
}

// NewCalendarService creates a new calendar service
func NewCalendarService(
	eventRepo calendar.EventRepository,
	projectRepo project.ProjectRepository,
	documentRepo billing.DocumentRepository,
	settingsRepo settings.SettingsRepository,
	mailSender MailSender,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		eventRepo:    eventRepo,
		projectRepo:  projectRepo,
		documentRepo: documentRepo,
		settingsRepo: settingsRepo,
		mailSender:   mailSender,
		txManager:    txManager,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateEvent creates a manual calendar event
func (s *CalendarService) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	event, err := calendar.NewManualEvent(req.Date, req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToEventResponse(event)
	return &response, nil
}

// GetEvent retrieves an event by id
func (s *CalendarService) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToEventResponse(event)
	return &response, nil
}

// ListEvents lists events, optionally restricted to a date range and kind
func (s *CalendarService) ListEvents(ctx context.Context, filter EventListFilter) ([]EventResponse, error) {
	var (
		events []calendar.Event
		err    error
	)

	switch {
	case filter.From != nil || filter.To != nil:
		from := time.Time{}
		to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		if filter.From != nil {
			from = *filter.From
		}
		if filter.To != nil {
			to = *filter.To
		}
		events, err = s.eventRepo.FindBetween(ctx, from, to)
	case filter.Kind != "":
		events, err = s.eventRepo.FindByKind(ctx, calendar.EventKind(filter.Kind))
	default:
		events, err = s.eventRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 1000, OrderBy: "date", OrderDir: "asc"})
	}
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	if filter.Kind != "" {
		filtered := events[:0]
		for _, e := range events {
			if string(e.Kind) == filter.Kind {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	return ToEventResponses(events), nil
}

// EventsDueOn returns the events falling on the given calendar day
func (s *CalendarService) EventsDueOn(ctx context.Context, day time.Time) ([]EventResponse, error) {
	events, err := s.eventRepo.FindDueOn(ctx, day)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	return ToEventResponses(events), nil
}

// UpdateEvent edits a manual event. Automatic events are rejected by the
// aggregate since they are rebuilt from their sources.
func (s *CalendarService) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	if err := event.UpdateDetails(req.Date, req.Title, req.Description); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToEventResponse(event)
	return &response, nil
}

// DeleteEvent removes a manual event
func (s *CalendarService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return shared.WrapStorageError(err)
	}
	if event.Kind.IsAutomatic() {
		return shared.NewDomainError("INVALID_STATE", "Automatic events cannot be deleted; they are rebuilt from their sources")
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return shared.WrapStorageError(err)
	}
	return nil
}

// RegenerateAutomaticEvents rebuilds every derived event: phase deadlines of
// in-progress projects and due dates of open invoices. Manual events are
// untouched. Ids are deterministic, so an unchanged input set reproduces the
// exact same events.
func (s *CalendarService) RegenerateAutomaticEvents(ctx context.Context) error {
	projects, err := s.projectRepo.FindByStatus(ctx, project.ProjectStatusInProgress)
	if err != nil {
		return shared.WrapStorageError(err)
	}

	invoices, err := s.documentRepo.FindByTypeAndStatus(ctx, billing.DocumentTypeInvoice,
		billing.InvoiceStatusPending, billing.InvoiceStatusOverdue)
	if err != nil {
		return shared.WrapStorageError(err)
	}

	var generated []*calendar.Event
	for i := range projects {
		p := &projects[i]
		for _, phase := range p.PendingPhases() {
			generated = append(generated, calendar.NewAutoEvent(
				calendar.EventKindAutoProject,
				*phase.DueDate,
				fmt.Sprintf("%s: %s", p.Name, phase.Name),
				fmt.Sprintf("Phase %q of project %q is due", phase.Name, p.Name),
				p.ID,
				phase.ID.String(),
			))
		}
	}
	for i := range invoices {
		inv := &invoices[i]
		if inv.DueDate == nil {
			continue
		}
		generated = append(generated, calendar.NewAutoEvent(
			calendar.EventKindAutoInvoice,
			*inv.DueDate,
			fmt.Sprintf("Invoice %s due", inv.Number),
			fmt.Sprintf("Invoice %s (%s EUR) is due for payment", inv.Number, inv.NetPayable.StringFixed(2)),
			inv.ID,
			"due",
		))
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.eventRepo.DeleteAutomatic(txCtx); err != nil {
			return err
		}
		if len(generated) == 0 {
			return nil
		}
		return s.eventRepo.SaveBatch(txCtx, generated)
	})
	if err != nil {
		return shared.WrapStorageError(err)
	}

	s.logger.Info("regenerated automatic calendar events",
		zap.Int("projects", len(projects)),
		zap.Int("invoices", len(invoices)),
		zap.Int("events", len(generated)))

	return nil
}

// SendDueReminders mails a single digest of the events falling daysAhead days
// from today. No events means no mail. Incomplete SMTP settings are an error,
// not a silent skip.
func (s *CalendarService) SendDueReminders(ctx context.Context, daysAhead int) (int, error) {
	if daysAhead < 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "Days ahead cannot be negative")
	}

	target := s.now().AddDate(0, 0, daysAhead)
	events, err := s.eventRepo.FindDueOn(ctx, target)
	if err != nil {
		return 0, shared.WrapStorageError(err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return 0, shared.WrapStorageError(err)
	}
	if !cfg.SMTP.IsComplete() {
		return 0, shared.NewDomainError("INVALID_STATE", "SMTP settings are incomplete; configure host, port and sender first")
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Title < events[j].Title
	})

	subject := fmt.Sprintf("Reminders for %s", target.Format("02/01/2006"))
	body := buildDigest(target, events)

	if err := s.mailSender.Send(ctx, cfg.SMTP, cfg.SMTP.From, subject, body); err != nil {
		return 0, shared.NewDomainError("MAIL_ERROR", fmt.Sprintf("Failed to send reminder digest: %v", err))
	}

	s.logger.Info("sent reminder digest",
		zap.Time("target", target),
		zap.Int("events", len(events)))

	return len(events), nil
}

func buildDigest(target time.Time, events []calendar.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming deadlines for %s:\n\n", target.Format("02/01/2006"))
	for _, e := range events {
		fmt.Fprintf(&b, "- [%s] %s", kindLabel(e.Kind), e.Title)
		if e.Description != "" {
			fmt.Fprintf(&b, "\n  %s", e.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func kindLabel(kind calendar.EventKind) string {
	switch kind {
	case calendar.EventKindAutoProject:
		return "Project"
	case calendar.EventKindAutoInvoice:
		return "Invoice"
	default:
		return "Event"
	}
}
