package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestionale/backend/internal/domain/shared"
)

type recordingService struct {
	mu              sync.Mutex
	regenerateCalls int
	reminderCalls   int
	reminderErr     error
	daysAhead       []int
}

func (s *recordingService) RegenerateAutomaticEvents(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerateCalls++
	return nil
}

func (s *recordingService) SendDueReminders(ctx context.Context, daysAhead int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminderCalls++
	s.daysAhead = append(s.daysAhead, daysAhead)
	if s.reminderErr != nil {
		return 0, s.reminderErr
	}
	return 1, nil
}

func (s *recordingService) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regenerateCalls, s.reminderCalls
}

func newTestTrigger(service ReminderService, cfg ReminderTriggerConfig) *ReminderTrigger {
	return NewReminderTrigger(cfg, service, zap.NewNop())
}

func TestReminderTrigger_RunNow(t *testing.T) {
	service := &recordingService{}
	trigger := newTestTrigger(service, DefaultReminderTriggerConfig())

	trigger.RunNow(context.Background())

	regen, reminders := service.counts()
	assert.Equal(t, 1, regen)
	assert.Equal(t, 1, reminders)
	assert.Equal(t, []int{3}, service.daysAhead)
}

func TestReminderTrigger_RunNow_ReminderFailureDoesNotPanic(t *testing.T) {
	service := &recordingService{reminderErr: shared.ErrInvalidState}
	trigger := newTestTrigger(service, DefaultReminderTriggerConfig())

	trigger.RunNow(context.Background())

	regen, reminders := service.counts()
	assert.Equal(t, 1, regen)
	assert.Equal(t, 1, reminders)
}

func TestReminderTrigger_ChecksFireOncePerDay(t *testing.T) {
	service := &recordingService{}
	trigger := newTestTrigger(service, ReminderTriggerConfig{
		ReminderHour:  8,
		DaysAhead:     3,
		CheckInterval: time.Minute,
	})

	day := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	trigger.now = func() time.Time { return day }

	trigger.checkAndRun(context.Background())
	trigger.checkAndRun(context.Background())

	regen, _ := service.counts()
	assert.Equal(t, 1, regen, "same day must not run twice")

	// The next day runs again
	trigger.now = func() time.Time { return day.AddDate(0, 0, 1) }
	trigger.checkAndRun(context.Background())

	regen, _ = service.counts()
	assert.Equal(t, 2, regen)
}

func TestReminderTrigger_SkipsBeforeConfiguredHour(t *testing.T) {
	service := &recordingService{}
	trigger := newTestTrigger(service, ReminderTriggerConfig{
		ReminderHour:  8,
		DaysAhead:     3,
		CheckInterval: time.Minute,
	})

	trigger.now = func() time.Time {
		return time.Date(2025, 7, 1, 7, 59, 0, 0, time.UTC)
	}
	trigger.checkAndRun(context.Background())

	regen, _ := service.counts()
	assert.Equal(t, 0, regen)
}

func TestReminderTrigger_StartStop(t *testing.T) {
	service := &recordingService{}
	trigger := newTestTrigger(service, ReminderTriggerConfig{
		ReminderHour:  0,
		DaysAhead:     3,
		CheckInterval: 5 * time.Millisecond,
	})

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))
	require.NoError(t, trigger.Start(ctx), "second start is a no-op")

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, trigger.Stop(ctx))

	regen, _ := service.counts()
	assert.Equal(t, 1, regen, "loop fires exactly once for the day")
}
