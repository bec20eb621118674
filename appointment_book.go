package luckbook

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentUpdate edits an appointment; nil fields are left unchanged
type AppointmentUpdate struct {
	ClientName    *string
	ClientPhone   *string
	Procedure     *string
	ScheduledAt   *time.Time
	Value         *decimal.Decimal
	Cost          *decimal.Decimal
	PaymentMethod *PaymentMethod
	Notes         *string
}

func (u AppointmentUpdate) apply(a *AppointmentRecord) {
	if u.ClientName != nil {
		a.ClientName = *u.ClientName
	}
	if u.ClientPhone != nil {
		a.ClientPhone = *u.ClientPhone
	}
	if u.Procedure != nil {
		a.Procedure = *u.Procedure
	}
	if u.ScheduledAt != nil {
		a.ScheduledAt = *u.ScheduledAt
	}
	if u.Value != nil {
		a.Value = *u.Value
	}
	if u.Cost != nil {
		a.Cost = *u.Cost
	}
	if u.PaymentMethod != nil {
		a.PaymentMethod = *u.PaymentMethod
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
}

// AppointmentBook stores appointments as one collection
type AppointmentBook struct {
	store      Store
	key        string
	logger     Logger
	aggregator *FinancialAggregator
	mu         sync.Mutex
}

// NewAppointmentBook creates an appointment book over store under the default key
func NewAppointmentBook(store Store, logger Logger) *AppointmentBook {
	return NewAppointmentBookWithKey(store, DefaultAppointmentsKey, logger)
}

// NewAppointmentBookWithKey creates an appointment book over store under key
func NewAppointmentBookWithKey(store Store, key string, logger Logger) *AppointmentBook {
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &AppointmentBook{
		store:      store,
		key:        key,
		logger:     logger,
		aggregator: NewFinancialAggregator(),
	}
}

// WithAggregator replaces the aggregator used by Summary
func (b *AppointmentBook) WithAggregator(aggregator *FinancialAggregator) *AppointmentBook {
	b.aggregator = aggregator
	return b
}

// List returns every appointment ordered by scheduled time
func (b *AppointmentBook) List(ctx context.Context) ([]AppointmentRecord, error) {
	return b.Find(ctx, "", "")
}

// Find returns appointments with the given status (empty for any) whose client
// name or procedure contains query, ordered by scheduled time
func (b *AppointmentBook) Find(ctx context.Context, status AppointmentStatus, query string) ([]AppointmentRecord, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus.WithDetailsf("status=%q", status)
	}

	records, err := loadCollection[AppointmentRecord](ctx, b.store, b.key)
	if err != nil {
		return nil, err
	}

	out := make([]AppointmentRecord, 0, len(records))
	for _, r := range records {
		if status != "" && r.Status != status {
			continue
		}
		if r.matches(query) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b AppointmentRecord) int {
		return a.ScheduledAt.Compare(b.ScheduledAt)
	})
	return out, nil
}

// Get returns one appointment by ID
func (b *AppointmentBook) Get(ctx context.Context, id string) (AppointmentRecord, error) {
	records, err := loadCollection[AppointmentRecord](ctx, b.store, b.key)
	if err != nil {
		return AppointmentRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return AppointmentRecord{}, ErrRecordNotFound.WithDetailsf("appointment id=%s", id)
}

// Add books a new appointment. It gets a fresh ID and starts upcoming.
func (b *AppointmentBook) Add(ctx context.Context, record AppointmentRecord) (AppointmentRecord, error) {
	record.ID = newRecordID()
	record.Status = StatusUpcoming
	if err := record.Validate(); err != nil {
		return AppointmentRecord{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := loadCollection[AppointmentRecord](ctx, b.store, b.key)
	if err != nil {
		return AppointmentRecord{}, err
	}
	records = append(records, record)
	if err := saveCollection(ctx, b.store, b.key, records); err != nil {
		b.logger.Error("Failed to add appointment for %s: %v", record.ClientName, err)
		return AppointmentRecord{}, err
	}

	b.logger.Info("Added appointment %s: procedure=%s, scheduled_at=%s",
		record.ID, record.Procedure, record.ScheduledAt.Format(time.RFC3339))
	return record, nil
}

// Update edits the descriptive and money fields of an appointment
func (b *AppointmentBook) Update(ctx context.Context, id string, update AppointmentUpdate) (AppointmentRecord, error) {
	return b.mutate(ctx, id, func(r *AppointmentRecord) error {
		update.apply(r)
		return r.Validate()
	})
}

// Complete moves an upcoming appointment to past. Completing twice is an error.
func (b *AppointmentBook) Complete(ctx context.Context, id string) (AppointmentRecord, error) {
	return b.mutate(ctx, id, func(r *AppointmentRecord) error {
		if r.Status != StatusUpcoming {
			return ErrInvalidStatusTransition.WithDetailsf("appointment id=%s, status=%s", id, r.Status)
		}
		r.Status = StatusPast
		return nil
	})
}

// Cancel deletes an appointment
func (b *AppointmentBook) Cancel(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := loadCollection[AppointmentRecord](ctx, b.store, b.key)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(records, func(r AppointmentRecord) bool { return r.ID == id })
	if idx < 0 {
		return ErrRecordNotFound.WithDetailsf("appointment id=%s", id)
	}
	records = slices.Delete(records, idx, idx+1)
	if err := saveCollection(ctx, b.store, b.key, records); err != nil {
		return err
	}

	b.logger.Info("Cancelled appointment %s", id)
	return nil
}

// Clear drops every appointment
func (b *AppointmentBook) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Delete(ctx, b.key); err != nil {
		return ErrStoreSaveFailure.WithCause(err).WithDetailsf("key=%s", b.key)
	}
	b.logger.Info("Cleared appointments")
	return nil
}

// Summary loads every appointment and aggregates the period
func (b *AppointmentBook) Summary(ctx context.Context, period ReportPeriod) (FinancialSummary, error) {
	records, err := loadCollection[AppointmentRecord](ctx, b.store, b.key)
	if err != nil {
		return FinancialSummary{}, err
	}
	return b.aggregator.Summarize(records, period)
}

func (b *AppointmentBook) mutate(ctx context.Context, id string, fn func(*AppointmentRecord) error) (AppointmentRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := loadCollection[AppointmentRecord](ctx, b.store, b.key)
	if err != nil {
		return AppointmentRecord{}, err
	}
	idx := slices.IndexFunc(records, func(r AppointmentRecord) bool { return r.ID == id })
	if idx < 0 {
		return AppointmentRecord{}, ErrRecordNotFound.WithDetailsf("appointment id=%s", id)
	}

	updated := records[idx]
	if err := fn(&updated); err != nil {
		return AppointmentRecord{}, err
	}
	records[idx] = updated
	if err := saveCollection(ctx, b.store, b.key, records); err != nil {
		return AppointmentRecord{}, err
	}
	return updated, nil
}
