package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/shared"
)

func newTestContact(t *testing.T, contactType partner.ContactType, name string) *partner.Contact {
	t.Helper()
	contact, err := partner.NewContact(contactType, name)
	require.NoError(t, err)
	return contact
}

func TestGormContactRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormContactRepository(newTestDB(t))
	ctx := context.Background()

	contact := newTestContact(t, partner.ContactTypeClient, "Mario Rossi")
	contact.Company = "Rossi Srl"
	contact.Email = "mario@rossi.it"
	require.NoError(t, repo.Save(ctx, contact))

	found, err := repo.FindByID(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mario Rossi", found.Name)
	assert.Equal(t, "Rossi Srl", found.Company)
	assert.Equal(t, partner.ContactTypeClient, found.Type)
}

func TestGormContactRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormContactRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormContactRepository_FindByType(t *testing.T) {
	repo := NewGormContactRepository(newTestDB(t))
	ctx := context.Background()

	client := newTestContact(t, partner.ContactTypeClient, "Client One")
	supplier := newTestContact(t, partner.ContactTypeSupplier, "Supplier One")
	require.NoError(t, repo.Save(ctx, client))
	require.NoError(t, repo.Save(ctx, supplier))

	clients, err := repo.FindByType(ctx, partner.ContactTypeClient, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Client One", clients[0].Name)
}

func TestGormContactRepository_Search(t *testing.T) {
	repo := NewGormContactRepository(newTestDB(t))
	ctx := context.Background()

	a := newTestContact(t, partner.ContactTypeClient, "Anna Bianchi")
	a.Company = "Studio Bianchi"
	b := newTestContact(t, partner.ContactTypeClient, "Luca Verdi")
	b.Email = "luca@bianchi.example"
	c := newTestContact(t, partner.ContactTypeSupplier, "Unrelated")
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.Search(ctx, "bianchi")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Anna Bianchi", found[0].Name)
	assert.Equal(t, "Luca Verdi", found[1].Name)
}

func TestGormContactRepository_FindAll_PaginationAndOrder(t *testing.T) {
	repo := NewGormContactRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		require.NoError(t, repo.Save(ctx, newTestContact(t, partner.ContactTypeClient, name)))
	}

	page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2, OrderBy: "name", OrderDir: "asc"})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Alice", page[0].Name)
	assert.Equal(t, "Bob", page[1].Name)

	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormContactRepository_FindAll_RejectsUnknownSortField(t *testing.T) {
	repo := NewGormContactRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestContact(t, partner.ContactTypeClient, "Anyone")))

	// An unknown sort field falls back to the default instead of reaching SQL
	found, err := repo.FindAll(ctx, shared.Filter{OrderBy: "name; DROP TABLE contacts", OrderDir: "asc"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestGormContactRepository_Delete(t *testing.T) {
	repo := NewGormContactRepository(newTestDB(t))
	ctx := context.Background()

	contact := newTestContact(t, partner.ContactTypeClient, "Temporary")
	require.NoError(t, repo.Save(ctx, contact))
	require.NoError(t, repo.Delete(ctx, contact.ID))

	_, err := repo.FindByID(ctx, contact.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, contact.ID), shared.ErrNotFound)
}
