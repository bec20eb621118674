package luckbook

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reminder is a notification due for an upcoming appointment
type Reminder struct {
	AppointmentID string    `json:"appointment_id"`
	ClientName    string    `json:"client_name"`
	Procedure     string    `json:"procedure"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	FireAt        time.Time `json:"fire_at"`
}

// ReminderPlanner computes when appointment reminders fire
type ReminderPlanner struct {
	leadTime time.Duration
}

// NewReminderPlanner creates a planner firing leadTime before each appointment
func NewReminderPlanner(leadTime time.Duration) (*ReminderPlanner, error) {
	if leadTime < 0 || leadTime > MaxReminderLeadTime {
		return nil, ErrInvalidLeadTime.WithDetailsf("lead_time=%v", leadTime)
	}
	return &ReminderPlanner{leadTime: leadTime}, nil
}

// Plan returns the reminder of an appointment; ok is false for anything not upcoming
func (p *ReminderPlanner) Plan(record AppointmentRecord) (Reminder, bool) {
	if record.Status != StatusUpcoming {
		return Reminder{}, false
	}
	return Reminder{
		AppointmentID: record.ID,
		ClientName:    record.ClientName,
		Procedure:     record.Procedure,
		ScheduledAt:   record.ScheduledAt,
		FireAt:        record.ScheduledAt.Add(-p.leadTime),
	}, true
}

// Due returns reminders with fire time in (from, to] whose appointment has not
// started by to, ordered by fire time
func (p *ReminderPlanner) Due(records []AppointmentRecord, from, to time.Time) []Reminder {
	var due []Reminder
	for _, r := range records {
		reminder, ok := p.Plan(r)
		if !ok {
			continue
		}
		if !reminder.FireAt.After(from) || reminder.FireAt.After(to) {
			continue
		}
		if !reminder.ScheduledAt.After(to) {
			continue
		}
		due = append(due, reminder)
	}
	slices.SortStableFunc(due, func(a, b Reminder) int {
		return a.FireAt.Compare(b.FireAt)
	})
	return due
}

// ReminderScheduler periodically hands due reminders to a Notifier
type ReminderScheduler struct {
	appointments *AppointmentBook
	settings     *SettingsBook
	planner      *ReminderPlanner
	notifier     Notifier
	logger       Logger
	schedule     string
	now          func() time.Time
	locker       Locker
	owner        string

	mu        sync.Mutex
	cron      *cron.Cron
	lastSweep time.Time
	delivered map[string]time.Time // appointment ID -> fire time already delivered
}

// NewReminderScheduler wires a scheduler from reminder config
func NewReminderScheduler(
	appointments *AppointmentBook, settings *SettingsBook, notifier Notifier, config *ReminderConfig, logger Logger,
) (*ReminderScheduler, error) {
	if config == nil {
		config = DefaultReminderConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	planner, err := NewReminderPlanner(config.LeadTime)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	return &ReminderScheduler{
		appointments: appointments,
		settings:     settings,
		planner:      planner,
		notifier:     notifier,
		logger:       logger,
		schedule:     config.Schedule,
		now:          time.Now,
		owner:        newRecordID(),
		delivered:    make(map[string]time.Time),
	}, nil
}

// WithLocker makes Sweep skip while another instance holds the sweep lock
func (s *ReminderScheduler) WithLocker(locker Locker) *ReminderScheduler {
	s.locker = locker
	return s
}

// Start registers the sweep job and starts the cron runner
func (s *ReminderScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(context.Background(), s.now()); err != nil {
			s.logger.Error("Reminder sweep failed: %v", err)
		}
	}); err != nil {
		return ErrConfigInvalid.WithCause(err).WithDetailsf("reminder schedule=%q", s.schedule)
	}

	c.Start()
	s.cron = c
	s.logger.Info("Reminder scheduler started: schedule=%s, lead_time=%v", s.schedule, s.planner.leadTime)
	return nil
}

// Stop stops the cron runner and waits for a running sweep to finish
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("Reminder scheduler stopped")
}

// Sweep delivers reminders due up to now that were not delivered before.
// Nothing is delivered while notifications are disabled.
func (s *ReminderScheduler) Sweep(ctx context.Context, now time.Time) (int, error) {
	if s.locker != nil {
		acquired, err := s.locker.TryAcquireLock(ctx, ReminderSweepLock, s.owner, DefaultLockExpiration)
		if err != nil {
			return 0, err
		}
		if !acquired {
			s.logger.Debug("Reminder sweep is running on another instance")
			return 0, nil
		}
		defer func() {
			if _, err := s.locker.ReleaseLock(ctx, ReminderSweepLock, s.owner); err != nil {
				s.logger.Warn("Failed to release reminder sweep lock: %v", err)
			}
		}()
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.lastSweep = now
	s.mu.Unlock()

	if !settings.NotificationsEnabled {
		s.logger.Debug("Notifications disabled, skipping reminder sweep")
		return 0, nil
	}

	upcoming, err := s.appointments.Find(ctx, StatusUpcoming, "")
	if err != nil {
		return 0, err
	}

	// 已经开始或已取消的预约不再需要去重记录
	live := make(map[string]struct{}, len(upcoming))
	for _, r := range upcoming {
		live[r.ID] = struct{}{}
	}

	s.mu.Lock()
	for id := range s.delivered {
		if _, ok := live[id]; !ok {
			delete(s.delivered, id)
		}
	}
	s.mu.Unlock()

	// 去重依赖 delivered, 因此窗口从零时开始, 错过的提醒在预约开始前仍会补发
	sent := 0
	for _, reminder := range s.planner.Due(upcoming, time.Time{}, now) {
		// 改期后 FireAt 变化, 需要重新提醒
		s.mu.Lock()
		firedAt, done := s.delivered[reminder.AppointmentID]
		s.mu.Unlock()
		if done && firedAt.Equal(reminder.FireAt) {
			continue
		}

		if err := s.notifier.Notify(ctx, reminder); err != nil {
			s.logger.Error("Failed to deliver reminder for appointment %s: %v", reminder.AppointmentID, err)
			continue
		}

		s.mu.Lock()
		s.delivered[reminder.AppointmentID] = reminder.FireAt
		s.mu.Unlock()
		sent++
	}

	if sent > 0 {
		s.logger.Info("Delivered %d reminders", sent)
	}
	return sent, nil
}

// LastSweep returns the time passed to the most recent Sweep
func (s *ReminderScheduler) LastSweep() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSweep
}
