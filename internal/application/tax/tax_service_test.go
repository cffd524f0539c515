package tax

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
	"github.com/gestionale/backend/internal/domain/settings"
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

// MockSettingsRepository is a mock implementation of settings.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Load(ctx context.Context) (*settings.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettingsRepository) AllocateNextNumber(ctx context.Context, kind settings.DocumentKind, now time.Time) (string, error) {
	args := m.Called(ctx, kind, now)
	return args.String(0), args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testInvoice(t *testing.T, number, unitPrice string, vatPct int64) billing.Document {
	t.Helper()
	item, err := billing.NewLineItem("Consulting", decimal.NewFromInt(1), dec(unitPrice), nil)
	require.NoError(t, err)
	vat, err := valueobject.NewPercent(decimal.NewFromInt(vatPct))
	require.NoError(t, err)
	inv, err := billing.NewInvoice(number, uuid.New(), nil, billing.LineItems{item}, valueobject.ZeroPercent(), vat, valueobject.ZeroPercent(), nil, "")
	require.NoError(t, err)
	return *inv
}

func testExpense(t *testing.T, date time.Time, net, vat string) ledger.Movement {
	t.Helper()
	total := dec(net).Add(dec(vat))
	m, err := ledger.NewMovement(date, ledger.MovementTypeExpense, "Office supplies", dec(net), dec(vat), decimal.Zero, total, "")
	require.NoError(t, err)
	return *m
}

func testIncome(t *testing.T, date time.Time, net, vat string) ledger.Movement {
	t.Helper()
	total := dec(net).Add(dec(vat))
	m, err := ledger.NewMovement(date, ledger.MovementTypeIncome, "Client payment", dec(net), dec(vat), decimal.Zero, total, "")
	require.NoError(t, err)
	return *m
}

func TestTaxService_QuarterlyVAT(t *testing.T) {
	ctx := context.Background()
	q2Start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	q2End := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("charged minus paid", func(t *testing.T) {
		documentRepo := new(MockDocumentRepository)
		movementRepo := new(MockMovementRepository)
		service := NewTaxService(documentRepo, movementRepo, new(MockSettingsRepository))

		// 1000 @ 22% and 500 @ 22% charged; 110 paid on expenses
		documentRepo.On("FindIssuedBetween", ctx, billing.DocumentTypeInvoice, q2Start, q2End).
			Return([]billing.Document{
				testInvoice(t, "F2025/010", "1000.00", 22),
				testInvoice(t, "F2025/011", "500.00", 22),
			}, nil)
		movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeExpense, q2Start, q2End).
			Return([]ledger.Movement{
				testExpense(t, q2Start.AddDate(0, 1, 0), "500.00", "110.00"),
			}, nil)

		resp, err := service.QuarterlyVAT(ctx, 2025, 2)
		require.NoError(t, err)
		assert.Equal(t, "330.00", resp.VATCharged)
		assert.Equal(t, "110.00", resp.VATPaid)
		assert.Equal(t, "220.00", resp.VATBalance)
		assert.Equal(t, 2, resp.InvoiceCount)
	})

	t.Run("cancelled invoices still owe their VAT", func(t *testing.T) {
		documentRepo := new(MockDocumentRepository)
		movementRepo := new(MockMovementRepository)
		service := NewTaxService(documentRepo, movementRepo, new(MockSettingsRepository))

		cancelled := testInvoice(t, "F2025/012", "1000.00", 22)
		require.NoError(t, cancelled.ChangeStatus(billing.InvoiceStatusCancelled))

		documentRepo.On("FindIssuedBetween", ctx, billing.DocumentTypeInvoice, q2Start, q2End).
			Return([]billing.Document{cancelled}, nil)
		movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeExpense, q2Start, q2End).
			Return([]ledger.Movement{}, nil)

		resp, err := service.QuarterlyVAT(ctx, 2025, 2)
		require.NoError(t, err)
		assert.Equal(t, "220.00", resp.VATCharged)
		assert.Equal(t, 1, resp.InvoiceCount)
	})

	t.Run("quarter out of range rejected", func(t *testing.T) {
		service := NewTaxService(new(MockDocumentRepository), new(MockMovementRepository), new(MockSettingsRepository))

		_, err := service.QuarterlyVAT(ctx, 2025, 0)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = service.QuarterlyVAT(ctx, 2025, 5)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestTaxService_YTDContributions(t *testing.T) {
	ctx := context.Background()
	yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	defaultTax := settings.TaxConfig{
		INPSPct:  dec("26.07"),
		IRPEFPct: dec("23.00"),
	}

	t.Run("income scaled by the configured percentages", func(t *testing.T) {
		movementRepo := new(MockMovementRepository)
		settingsRepo := new(MockSettingsRepository)
		service := NewTaxService(new(MockDocumentRepository), movementRepo, settingsRepo)

		settingsRepo.On("Load", ctx).Return(&settings.Settings{Tax: defaultTax}, nil)
		movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeIncome, yearStart, yearEnd).
			Return([]ledger.Movement{
				testIncome(t, yearStart.AddDate(0, 2, 0), "8000.00", "1760.00"),
				testIncome(t, yearStart.AddDate(0, 5, 0), "2000.00", "440.00"),
			}, nil)

		resp, err := service.YTDContributions(ctx, 2025)
		require.NoError(t, err)
		// 10000 * 26.07% = 2607.00; base 7393.00; 7393 * 23% = 1700.39
		assert.Equal(t, "10000.00", resp.TaxableCashIncome)
		assert.Equal(t, "2607.00", resp.SocialContributions)
		assert.Equal(t, "7393.00", resp.IncomeTaxBase)
		assert.Equal(t, "1700.39", resp.IncomeTaxEstimate)
	})

	t.Run("no income means zero everywhere", func(t *testing.T) {
		movementRepo := new(MockMovementRepository)
		settingsRepo := new(MockSettingsRepository)
		service := NewTaxService(new(MockDocumentRepository), movementRepo, settingsRepo)

		settingsRepo.On("Load", ctx).Return(&settings.Settings{Tax: defaultTax}, nil)
		movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeIncome, yearStart, yearEnd).
			Return([]ledger.Movement{}, nil)

		resp, err := service.YTDContributions(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, "0.00", resp.TaxableCashIncome)
		assert.Equal(t, "0.00", resp.SocialContributions)
		assert.Equal(t, "0.00", resp.IncomeTaxEstimate)
	})
}

func TestTaxService_FullEstimate(t *testing.T) {
	ctx := context.Background()

	t.Run("sums contributions, income tax and positive VAT balances", func(t *testing.T) {
		documentRepo := new(MockDocumentRepository)
		movementRepo := new(MockMovementRepository)
		settingsRepo := new(MockSettingsRepository)
		service := NewTaxService(documentRepo, movementRepo, settingsRepo)

		settingsRepo.On("Load", ctx).Return(&settings.Settings{
			Tax: settings.TaxConfig{INPSPct: dec("26.07"), IRPEFPct: dec("23.00")},
		}, nil)

		yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeIncome, yearStart, yearStart.AddDate(1, 0, 0)).
			Return([]ledger.Movement{testIncome(t, yearStart.AddDate(0, 2, 0), "10000.00", "2200.00")}, nil)

		// Q1 has an invoice, the other quarters are empty. Q2 carries an
		// expense-only negative balance that must not reduce the total.
		q1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		q2 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		documentRepo.On("FindIssuedBetween", ctx, billing.DocumentTypeInvoice, q1, q1.AddDate(0, 3, 0)).
			Return([]billing.Document{testInvoice(t, "F2025/001", "1000.00", 22)}, nil)
		documentRepo.On("FindIssuedBetween", ctx, billing.DocumentTypeInvoice, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return([]billing.Document{}, nil)

		movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeExpense, q2, q2.AddDate(0, 3, 0)).
			Return([]ledger.Movement{testExpense(t, q2, "100.00", "22.00")}, nil)
		movementRepo.On("FindByTypeBetween", ctx, ledger.MovementTypeExpense, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return([]ledger.Movement{}, nil)

		resp, err := service.FullEstimate(ctx, 2025)
		require.NoError(t, err)
		require.Len(t, resp.Quarters, 4)

		assert.Equal(t, "220.00", resp.Quarters[0].VATBalance)
		assert.Equal(t, "-22.00", resp.Quarters[1].VATBalance)
		// 2607.00 + 1700.39 + 220.00
		assert.Equal(t, "4527.39", resp.TotalDue)
	})
}
