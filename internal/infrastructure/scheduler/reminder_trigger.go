package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReminderService is the slice of the calendar service the trigger drives
type ReminderService interface {
	RegenerateAutomaticEvents(ctx context.Context) error
	SendDueReminders(ctx context.Context, daysAhead int) (int, error)
}

// ReminderTriggerConfig holds configuration for the daily reminder trigger
type ReminderTriggerConfig struct {
	// ReminderHour is the local hour (24h format) after which the daily
	// run fires
	ReminderHour int

	// DaysAhead is how many days before an event the reminder goes out
	DaysAhead int

	// CheckInterval is how often to check whether it is time to run
	CheckInterval time.Duration
}

// DefaultReminderTriggerConfig returns default trigger configuration
func DefaultReminderTriggerConfig() ReminderTriggerConfig {
	return ReminderTriggerConfig{
		ReminderHour:  8,
		DaysAhead:     3,
		CheckInterval: time.Minute,
	}
}

// ReminderTrigger fires the daily calendar maintenance run: regenerate the
// derived events, then mail reminders for what is coming due.
type ReminderTrigger struct {
	config  ReminderTriggerConfig
	service ReminderService
	logger  *zap.Logger
	now     func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewReminderTrigger creates a new reminder trigger
func NewReminderTrigger(config ReminderTriggerConfig, service ReminderService, logger *zap.Logger) *ReminderTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderTrigger{
		config:  config,
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Start starts the trigger loop
func (r *ReminderTrigger) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.runLoop(ctx)

	r.logger.Info("Reminder trigger started",
		zap.Int("reminder_hour", r.config.ReminderHour),
		zap.Int("days_ahead", r.config.DaysAhead),
		zap.Duration("check_interval", r.config.CheckInterval),
	)

	return nil
}

// Stop stops the trigger and waits for an in-flight run to finish
func (r *ReminderTrigger) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Reminder trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *ReminderTrigger) runLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.checkAndRun(ctx)
		}
	}
}

// checkAndRun fires once per calendar day, on the first tick at or after the
// configured hour. Comparing against the hour instead of an exact minute
// means a process started late in the day still runs.
func (r *ReminderTrigger) checkAndRun(ctx context.Context) {
	now := r.now()
	currentDate := now.Format("2006-01-02")

	r.mu.Lock()
	alreadyRan := r.lastRunDate == currentDate
	r.mu.Unlock()

	if alreadyRan || now.Hour() < r.config.ReminderHour {
		return
	}

	r.mu.Lock()
	r.lastRunDate = currentDate
	r.mu.Unlock()

	r.runOnce(ctx)
}

// RunNow fires the maintenance run immediately, outside the daily schedule
func (r *ReminderTrigger) RunNow(ctx context.Context) {
	r.runOnce(ctx)
}

func (r *ReminderTrigger) runOnce(ctx context.Context) {
	r.logger.Info("Running daily calendar maintenance")

	if err := r.service.RegenerateAutomaticEvents(ctx); err != nil {
		r.logger.Error("Failed to regenerate calendar events", zap.Error(err))
	}

	sent, err := r.service.SendDueReminders(ctx, r.config.DaysAhead)
	if err != nil {
		r.logger.Warn("Failed to send due reminders", zap.Error(err))
		return
	}
	if sent > 0 {
		r.logger.Info("Sent due reminders", zap.Int("events", sent))
	}
}
