package report

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/ledger"
	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/project"
	"github.com/gestionale/backend/internal/domain/shared"
)

// ReportService produces the dashboard summary and the time reports
type ReportService struct {
	documentRepo billing.DocumentRepository
	projectRepo  project.ProjectRepository
	movementRepo ledger.MovementRepository
	contactRepo  partner.ContactRepository
	now          func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	documentRepo billing.DocumentRepository,
	projectRepo project.ProjectRepository,
	movementRepo ledger.MovementRepository,
	contactRepo partner.ContactRepository,
) *ReportService {
	return &ReportService{
		documentRepo: documentRepo,
		projectRepo:  projectRepo,
		movementRepo: movementRepo,
		contactRepo:  contactRepo,
		now:          time.Now,
	}
}

// Dashboard summarizes the open position: outstanding invoices, running
// projects and the year-to-date cash flow.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	open, err := s.documentRepo.FindByTypeAndStatus(ctx, billing.DocumentTypeInvoice,
		billing.InvoiceStatusPending, billing.InvoiceStatusOverdue)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	openTotal := decimal.Zero
	overdue := 0
	for i := range open {
		openTotal = openTotal.Add(open[i].NetPayable)
		if open[i].Status == billing.InvoiceStatusOverdue {
			overdue++
		}
	}

	inProgress, err := s.projectRepo.FindByStatus(ctx, project.ProjectStatusInProgress)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	yearStart := time.Date(s.now().Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	incomes, err := s.movementRepo.FindByTypeBetween(ctx, ledger.MovementTypeIncome, yearStart, yearEnd)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	expenses, err := s.movementRepo.FindByTypeBetween(ctx, ledger.MovementTypeExpense, yearStart, yearEnd)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	revenue := decimal.Zero
	for i := range incomes {
		revenue = revenue.Add(incomes[i].AmountTotal)
	}
	spent := decimal.Zero
	for i := range expenses {
		spent = spent.Add(expenses[i].AmountTotal)
	}

	return &DashboardResponse{
		OpenInvoices:       len(open),
		OpenInvoicesTotal:  openTotal.StringFixed(2),
		OverdueInvoices:    overdue,
		InProgressProjects: len(inProgress),
		YTDRevenue:         revenue.StringFixed(2),
		YTDExpenses:        spent.StringFixed(2),
		YTDNet:             revenue.Sub(spent).StringFixed(2),
	}, nil
}

// TimeReport aggregates tracked activities over a period, split into billable
// and non-billable hours per project. The billable cost uses each project's
// hourly rate on the billable hours that fall in the range.
func (s *ReportService) TimeReport(ctx context.Context, filter TimeReportFilter) (*TimeReportResponse, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Report range end precedes its start")
	}

	var (
		projects []project.Project
		err      error
	)
	if filter.ClientID != nil {
		projects, err = s.projectRepo.FindByClient(ctx, *filter.ClientID)
	} else {
		projects, err = s.projectRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 1000, OrderBy: "name", OrderDir: "asc"})
	}
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	clientNames := make(map[string]string)
	rows := make([]ProjectTimeRow, 0, len(projects))
	totalBillable := decimal.Zero
	totalNonBillable := decimal.Zero

	for i := range projects {
		p := &projects[i]

		billableHours := decimal.Zero
		nonBillableHours := decimal.Zero
		for _, a := range p.Activities {
			if !inRange(a.Date, filter.From, filter.To) {
				continue
			}
			if a.Billable {
				billableHours = billableHours.Add(a.Hours)
			} else {
				nonBillableHours = nonBillableHours.Add(a.Hours)
			}
		}
		if billableHours.IsZero() && nonBillableHours.IsZero() {
			continue
		}

		clientKey := p.ClientID.String()
		name, ok := clientNames[clientKey]
		if !ok {
			contact, err := s.contactRepo.FindByID(ctx, p.ClientID)
			if err != nil {
				name = ""
			} else {
				name = contact.DisplayName()
			}
			clientNames[clientKey] = name
		}

		rows = append(rows, ProjectTimeRow{
			ProjectID:        p.ID,
			ProjectName:      p.Name,
			ClientID:         p.ClientID,
			ClientName:       name,
			BillableHours:    billableHours.StringFixed(2),
			NonBillableHours: nonBillableHours.StringFixed(2),
			TotalHours:       billableHours.Add(nonBillableHours).StringFixed(2),
			BillableCost:     billableHours.Mul(p.HourlyRate).Round(2).StringFixed(2),
		})
		totalBillable = totalBillable.Add(billableHours)
		totalNonBillable = totalNonBillable.Add(nonBillableHours)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ProjectName < rows[j].ProjectName })

	return &TimeReportResponse{
		From:             filter.From,
		To:               filter.To,
		Projects:         rows,
		BillableHours:    totalBillable.StringFixed(2),
		NonBillableHours: totalNonBillable.StringFixed(2),
		TotalHours:       totalBillable.Add(totalNonBillable).StringFixed(2),
	}, nil
}

// inRange checks date against an optional [from, to) window
func inRange(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && !date.Before(*to) {
		return false
	}
	return true
}
