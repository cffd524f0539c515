package report

import (
	"time"

	"github.com/google/uuid"
)

// DashboardResponse is the at-a-glance summary shown on the home screen
type DashboardResponse struct {
	OpenInvoices       int    `json:"open_invoices"`
	OpenInvoicesTotal  string `json:"open_invoices_total"`
	OverdueInvoices    int    `json:"overdue_invoices"`
	InProgressProjects int    `json:"in_progress_projects"`
	YTDRevenue         string `json:"ytd_revenue"`
	YTDExpenses        string `json:"ytd_expenses"`
	YTDNet             string `json:"ytd_net"`
}

// TimeReportFilter restricts a time report to a date range and optionally to
// one client
type TimeReportFilter struct {
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	ClientID *uuid.UUID `form:"client_id"`
}

// ProjectTimeRow is the per-project slice of a time report
type ProjectTimeRow struct {
	ProjectID        uuid.UUID `json:"project_id"`
	ProjectName      string    `json:"project_name"`
	ClientID         uuid.UUID `json:"client_id"`
	ClientName       string    `json:"client_name"`
	BillableHours    string    `json:"billable_hours"`
	NonBillableHours string    `json:"non_billable_hours"`
	TotalHours       string    `json:"total_hours"`
	BillableCost     string    `json:"billable_cost"`
}

// TimeReportResponse aggregates tracked hours over a period
type TimeReportResponse struct {
	From             *time.Time       `json:"from,omitempty"`
	To               *time.Time       `json:"to,omitempty"`
	Projects         []ProjectTimeRow `json:"projects"`
	BillableHours    string           `json:"billable_hours"`
	NonBillableHours string           `json:"non_billable_hours"`
	TotalHours       string           `json:"total_hours"`
}
