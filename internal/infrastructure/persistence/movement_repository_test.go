package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionale/backend/internal/domain/ledger"
	"github.com/gestionale/backend/internal/domain/shared"
)

func newTestMovement(t *testing.T, date time.Time, movementType ledger.MovementType, description string) *ledger.Movement {
	t.Helper()
	net := decimal.RequireFromString("100.00")
	vat := decimal.RequireFromString("22.00")
	m, err := ledger.NewMovement(date, movementType, description, net, vat, decimal.Zero, net.Add(vat), "")
	require.NoError(t, err)
	return m
}

func TestGormMovementRepository_FindBetween(t *testing.T) {
	repo := NewGormMovementRepository(newTestDB(t))
	ctx := context.Background()

	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, newTestMovement(t, jan, ledger.MovementTypeIncome, "January")))
	require.NoError(t, repo.Save(ctx, newTestMovement(t, feb, ledger.MovementTypeExpense, "February")))
	require.NoError(t, repo.Save(ctx, newTestMovement(t, mar, ledger.MovementTypeIncome, "March")))

	// [jan, mar) excludes the upper bound, newest first
	found, err := repo.FindBetween(ctx, jan, mar)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "February", found[0].Description)
	assert.Equal(t, "January", found[1].Description)
}

func TestGormMovementRepository_FindByTypeBetween(t *testing.T) {
	repo := NewGormMovementRepository(newTestDB(t))
	ctx := context.Background()

	date := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, newTestMovement(t, date, ledger.MovementTypeIncome, "Invoice paid")))
	require.NoError(t, repo.Save(ctx, newTestMovement(t, date, ledger.MovementTypeExpense, "Hosting")))

	yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	incomes, err := repo.FindByTypeBetween(ctx, ledger.MovementTypeIncome, yearStart, yearStart.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Invoice paid", incomes[0].Description)
}

func TestGormMovementRepository_FindByInvoice(t *testing.T) {
	repo := NewGormMovementRepository(newTestDB(t))
	ctx := context.Background()

	invoiceID := uuid.New()
	linked := newTestMovement(t, time.Now(), ledger.MovementTypeIncome, "Payment")
	linked.LinkedInvoiceID = &invoiceID
	require.NoError(t, repo.Save(ctx, linked))
	require.NoError(t, repo.Save(ctx, newTestMovement(t, time.Now(), ledger.MovementTypeIncome, "Unlinked")))

	found, err := repo.FindByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "Payment", found.Description)

	_, err = repo.FindByInvoice(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMovementRepository_FindAll_TypeFilter(t *testing.T) {
	repo := NewGormMovementRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestMovement(t, time.Now(), ledger.MovementTypeIncome, "In")))
	require.NoError(t, repo.Save(ctx, newTestMovement(t, time.Now(), ledger.MovementTypeExpense, "Out")))

	expenses, err := repo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{"type": ledger.MovementTypeExpense},
	})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Out", expenses[0].Description)
}
