package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/shared"
)

func TestGormTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	tm := NewGormTransactionManager(db)
	repo := NewGormContactRepository(db)

	contact := newTestContact(t, partner.ContactTypeClient, "Committed")
	err := tm.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.Save(ctx, contact)
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Committed", found.Name)
}

func TestGormTransactionManager_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewGormTransactionManager(db)
	repo := NewGormContactRepository(db)

	contact := newTestContact(t, partner.ContactTypeClient, "Rolled back")
	err := tm.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := repo.Save(ctx, contact); err != nil {
			return err
		}
		return shared.ErrInvalidInput
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = repo.FindByID(context.Background(), contact.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTransactionManager_NestedCallJoinsTransaction(t *testing.T) {
	db := newTestDB(t)
	tm := NewGormTransactionManager(db)
	repo := NewGormContactRepository(db)

	outer := newTestContact(t, partner.ContactTypeClient, "Outer")
	inner := newTestContact(t, partner.ContactTypeClient, "Inner")

	err := tm.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := repo.Save(ctx, outer); err != nil {
			return err
		}
		return tm.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := repo.Save(ctx, inner); err != nil {
				return err
			}
			return shared.ErrInvalidInput
		})
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	// The nested call joined the outer transaction, so both writes rolled back
	count, err := repo.Count(context.Background(), shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
