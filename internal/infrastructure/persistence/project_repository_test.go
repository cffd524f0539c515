package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionale/backend/internal/domain/project"
)

func TestGormProjectRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormProjectRepository(newTestDB(t))
	ctx := context.Background()

	p, err := project.NewProject("Website redesign", uuid.New(), decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	due := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	_, err = p.AddPhase("Wireframes", &due)
	require.NoError(t, err)
	_, err = p.AddActivity(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("3.5"), "Kickoff call", true)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website redesign", found.Name)
	assert.Equal(t, project.ProjectStatusInProgress, found.Status)

	// Phases and activities survive the JSON column round trip
	require.Len(t, found.Phases, 1)
	assert.Equal(t, "Wireframes", found.Phases[0].Name)
	require.NotNil(t, found.Phases[0].DueDate)
	assert.Equal(t, due.Format("2006-01-02"), found.Phases[0].DueDate.Format("2006-01-02"))
	require.Len(t, found.Activities, 1)
	assert.True(t, found.Activities[0].Hours.Equal(decimal.RequireFromString("3.5")))
}

func TestGormProjectRepository_FindByStatus(t *testing.T) {
	repo := NewGormProjectRepository(newTestDB(t))
	ctx := context.Background()

	active, err := project.NewProject("Active", uuid.New(), decimal.Zero)
	require.NoError(t, err)
	done, err := project.NewProject("Done", uuid.New(), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, done.ChangeStatus(project.ProjectStatusCompleted))

	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, done))

	inProgress, err := repo.FindByStatus(ctx, project.ProjectStatusInProgress)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, "Active", inProgress[0].Name)
}

func TestGormProjectRepository_FindByClient(t *testing.T) {
	repo := NewGormProjectRepository(newTestDB(t))
	ctx := context.Background()

	clientID := uuid.New()
	mine, err := project.NewProject("Mine", clientID, decimal.Zero)
	require.NoError(t, err)
	other, err := project.NewProject("Other", uuid.New(), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, mine))
	require.NoError(t, repo.Save(ctx, other))

	found, err := repo.FindByClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mine", found[0].Name)
}
