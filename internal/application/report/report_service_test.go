package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/ledger"
	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/project"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
)

// MockDocumentRepository is a minimal mock of billing.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Document, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *billing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) FindByType(ctx context.Context, docType billing.DocumentType, filter shared.Filter) ([]billing.Document, error) {
	args := m.Called(ctx, docType, filter)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByTypeAndStatus(ctx context.Context, docType billing.DocumentType, statuses ...billing.DocumentStatus) ([]billing.Document, error) {
	args := m.Called(ctx, docType, statuses)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, number string) (*billing.Document, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]billing.Document, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindIssuedBetween(ctx context.Context, docType billing.DocumentType, from, to time.Time) ([]billing.Document, error) {
	args := m.Called(ctx, docType, from, to)
	return args.Get(0).([]billing.Document), args.Error(1)
}

// MockProjectRepository is a minimal mock of project.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) FindByStatus(ctx context.Context, status project.ProjectStatus) ([]project.Project, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]project.Project), args.Error(1)
}

// MockMovementRepository is a minimal mock of ledger.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Movement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) Save(ctx context.Context, movement *ledger.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) FindBetween(ctx context.Context, from, to time.Time) ([]ledger.Movement, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) (*ledger.Movement, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByTypeBetween(ctx context.Context, movementType ledger.MovementType, from, to time.Time) ([]ledger.Movement, error) {
	args := m.Called(ctx, movementType, from, to)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

// MockContactRepository is a minimal mock of partner.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Contact, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *partner.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) FindByType(ctx context.Context, contactType partner.ContactType, filter shared.Filter) ([]partner.Contact, error) {
	args := m.Called(ctx, contactType, filter)
	return args.Get(0).([]partner.Contact), args.Error(1)
}

func (m *MockContactRepository) Search(ctx context.Context, query string) ([]partner.Contact, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]partner.Contact), args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testInvoice(t *testing.T, number, unitPrice string, status billing.DocumentStatus) billing.Document {
	t.Helper()
	item, err := billing.NewLineItem("Consulting", decimal.NewFromInt(1), dec(unitPrice), nil)
	require.NoError(t, err)
	vat, err := valueobject.NewPercent(decimal.NewFromInt(22))
	require.NoError(t, err)
	inv, err := billing.NewInvoice(number, uuid.New(), nil, billing.LineItems{item}, valueobject.ZeroPercent(), vat, valueobject.ZeroPercent(), nil, "")
	require.NoError(t, err)
	if status != inv.Status {
		require.NoError(t, inv.ChangeStatus(status))
	}
	return *inv
}

func testMovement(t *testing.T, movementType ledger.MovementType, date time.Time, total string) ledger.Movement {
	t.Helper()
	m, err := ledger.NewMovement(date, movementType, "test", dec(total), decimal.Zero, decimal.Zero, dec(total), "")
	require.NoError(t, err)
	return *m
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()

	documentRepo := new(MockDocumentRepository)
	projectRepo := new(MockProjectRepository)
	movementRepo := new(MockMovementRepository)
	service := NewReportService(documentRepo, projectRepo, movementRepo, new(MockContactRepository))
	service.now = func() time.Time { return time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC) }

	pending := testInvoice(t, "F2025/010", "100.00", billing.InvoiceStatusPending)
	overdue := testInvoice(t, "F2025/005", "200.00", billing.InvoiceStatusOverdue)

	documentRepo.On("FindByTypeAndStatus", ctx, billing.DocumentTypeInvoice,
		[]billing.DocumentStatus{billing.InvoiceStatusPending, billing.InvoiceStatusOverdue}).
		Return([]billing.Document{pending, overdue}, nil)

	p, err := project.NewProject("Website redesign", uuid.New(), decimal.NewFromInt(50))
	require.NoError(t, err)
	projectRepo.On("FindByStatus", ctx, project.ProjectStatusInProgress).
		Return([]project.Project{*p}, nil)

	yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeIncome, yearStart, yearStart.AddDate(1, 0, 0)).
		Return([]ledger.Movement{testMovement(t, ledger.MovementTypeIncome, yearStart.AddDate(0, 3, 0), "5000.00")}, nil)
	movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeExpense, yearStart, yearStart.AddDate(1, 0, 0)).
		Return([]ledger.Movement{testMovement(t, ledger.MovementTypeExpense, yearStart.AddDate(0, 4, 0), "1200.00")}, nil)

	resp, err := service.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.OpenInvoices)
	// 122.00 + 244.00 net payable
	assert.Equal(t, "366.00", resp.OpenInvoicesTotal)
	assert.Equal(t, 1, resp.OverdueInvoices)
	assert.Equal(t, 1, resp.InProgressProjects)
	assert.Equal(t, "5000.00", resp.YTDRevenue)
	assert.Equal(t, "1200.00", resp.YTDExpenses)
	assert.Equal(t, "3800.00", resp.YTDNet)
}

func TestReportService_TimeReport(t *testing.T) {
	ctx := context.Background()
	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	newClient := func(t *testing.T, name string) *partner.Contact {
		c, err := partner.NewContact(partner.ContactTypeClient, name)
		require.NoError(t, err)
		return c
	}

	t.Run("splits billable and non-billable hours per project", func(t *testing.T) {
		projectRepo := new(MockProjectRepository)
		contactRepo := new(MockContactRepository)
		service := NewReportService(new(MockDocumentRepository), projectRepo, new(MockMovementRepository), contactRepo)

		client := newClient(t, "ACME")
		p, err := project.NewProject("Website redesign", client.ID, decimal.NewFromInt(50))
		require.NoError(t, err)
		_, err = p.AddActivity(march, dec("3.5"), "Mockups", true)
		require.NoError(t, err)
		_, err = p.AddActivity(march.AddDate(0, 0, 1), dec("1.5"), "Internal sync", false)
		require.NoError(t, err)

		projectRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Return([]project.Project{*p}, nil)
		contactRepo.On("FindByID", ctx, client.ID).Return(client, nil)

		resp, err := service.TimeReport(ctx, TimeReportFilter{})
		require.NoError(t, err)
		require.Len(t, resp.Projects, 1)

		row := resp.Projects[0]
		assert.Equal(t, "Website redesign", row.ProjectName)
		assert.Equal(t, "ACME", row.ClientName)
		assert.Equal(t, "3.50", row.BillableHours)
		assert.Equal(t, "1.50", row.NonBillableHours)
		assert.Equal(t, "5.00", row.TotalHours)
		// 3.5h * 50 EUR
		assert.Equal(t, "175.00", row.BillableCost)
		assert.Equal(t, "3.50", resp.BillableHours)
		assert.Equal(t, "1.50", resp.NonBillableHours)
	})

	t.Run("activities outside the range are excluded", func(t *testing.T) {
		projectRepo := new(MockProjectRepository)
		contactRepo := new(MockContactRepository)
		service := NewReportService(new(MockDocumentRepository), projectRepo, new(MockMovementRepository), contactRepo)

		client := newClient(t, "ACME")
		p, err := project.NewProject("Website redesign", client.ID, decimal.NewFromInt(50))
		require.NoError(t, err)
		_, err = p.AddActivity(march, dec("2"), "In range", true)
		require.NoError(t, err)
		_, err = p.AddActivity(april, dec("4"), "Out of range", true)
		require.NoError(t, err)

		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

		projectRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Return([]project.Project{*p}, nil)
		contactRepo.On("FindByID", ctx, client.ID).Return(client, nil)

		resp, err := service.TimeReport(ctx, TimeReportFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, resp.Projects, 1)
		assert.Equal(t, "2.00", resp.Projects[0].BillableHours)
		assert.Equal(t, "2.00", resp.TotalHours)
	})

	t.Run("client filter narrows the project set", func(t *testing.T) {
		projectRepo := new(MockProjectRepository)
		contactRepo := new(MockContactRepository)
		service := NewReportService(new(MockDocumentRepository), projectRepo, new(MockMovementRepository), contactRepo)

		client := newClient(t, "ACME")
		p, err := project.NewProject("Website redesign", client.ID, decimal.NewFromInt(50))
		require.NoError(t, err)
		_, err = p.AddActivity(march, dec("2"), "Mockups", true)
		require.NoError(t, err)

		projectRepo.On("FindByClient", ctx, client.ID).Return([]project.Project{*p}, nil)
		contactRepo.On("FindByID", ctx, client.ID).Return(client, nil)

		resp, err := service.TimeReport(ctx, TimeReportFilter{ClientID: &client.ID})
		require.NoError(t, err)
		require.Len(t, resp.Projects, 1)
		projectRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("projects without activity in the range are dropped", func(t *testing.T) {
		projectRepo := new(MockProjectRepository)
		service := NewReportService(new(MockDocumentRepository), projectRepo, new(MockMovementRepository), new(MockContactRepository))

		p, err := project.NewProject("Idle project", uuid.New(), decimal.NewFromInt(50))
		require.NoError(t, err)

		projectRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Return([]project.Project{*p}, nil)

		resp, err := service.TimeReport(ctx, TimeReportFilter{})
		require.NoError(t, err)
		assert.Empty(t, resp.Projects)
		assert.Equal(t, "0.00", resp.TotalHours)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		service := NewReportService(new(MockDocumentRepository), new(MockProjectRepository), new(MockMovementRepository), new(MockContactRepository))

		from := april
		to := march
		_, err := service.TimeReport(ctx, TimeReportFilter{From: &from, To: &to})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
