package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"subspend/internal/aggregate"
	"subspend/internal/entity"
)

// storedSubscription is the persisted shape of a record. BillingCycle is
// optional because records written before cycles existed lack it.
type storedSubscription struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Cost         float64         `json:"cost"`
	BillingCycle *string         `json:"billingCycle,omitempty"`
	CreatedAt    strfmt.DateTime `json:"createdAt"`
}

// Store owns the in-memory collection and keeps it in sync with a Slot
type Store struct {
	slot Slot
	key  string
	log  *slog.Logger
	now  func() time.Time

	mu   sync.Mutex
	subs []entity.Subscription
}

// NewStore creates an empty store backed by slot. Call Load to read persisted data.
func NewStore(slot Slot, options ...func(*Store)) *Store {
	s := &Store{
		slot: slot,
		key:  DefaultSlotKey,
		log:  slog.Default(),
		now:  time.Now,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// WithKey returns an option that sets the slot key.
func WithKey(key string) func(*Store) {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger returns an option that sets the store logger.
func WithLogger(log *slog.Logger) func(*Store) {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock returns an option that replaces the time source.
func WithClock(now func() time.Time) func(*Store) {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Load replaces the collection with the persisted one. Missing data yields an
// empty collection; malformed data is logged and discarded. Legacy records
// without a billing cycle are migrated to monthly and written back once.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.slot.Read(ctx, s.key)
	switch {
	case errors.Is(err, ErrSlotEmpty):
		s.subs = nil
		return nil
	case err != nil:
		return fmt.Errorf("%w %q: %w", ErrSlotRead, s.key, err)
	}

	if len(raw) == 0 {
		s.subs = nil
		return nil
	}

	var stored []storedSubscription
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Error("failed to load subscriptions, starting empty",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		s.subs = nil
		return nil
	}

	subs := make([]entity.Subscription, 0, len(stored))
	migrated := 0
	for _, rec := range stored {
		sub, ok := fromStored(rec)
		if !ok {
			migrated++
		}
		subs = append(subs, sub)
	}
	s.subs = subs

	s.log.Debug("subscriptions loaded", slog.Int("count", len(subs)), slog.Int("migrated", migrated))

	if migrated > 0 {
		s.log.Info("migrated legacy subscriptions", slog.Int("count", migrated))
		// The migrated records are usable as is; the rewrite is retried by the next Add or Delete.
		if err := s.persistLocked(ctx); err != nil {
			s.log.Warn("migrated subscriptions kept in memory only", slog.Int("count", migrated))
		}
	}
	return nil
}

// Add appends a new record and persists the collection. Input is expected to
// be validated by the caller. On a write failure the record is kept in memory
// and the error wraps ErrPersist.
func (s *Store) Add(ctx context.Context, name string, cost float64, cycle entity.BillingCycle) (entity.Subscription, error) {
	if cycle == "" {
		cycle = entity.Monthly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Truncate(time.Millisecond)
	sub := entity.Subscription{
		ID:           s.nextIDLocked(now),
		Name:         name,
		Cost:         cost,
		BillingCycle: cycle,
		CreatedAt:    now,
	}
	s.subs = append(s.subs, sub)

	s.log.Debug("subscription added",
		slog.Int64("id", sub.ID),
		slog.String("name", sub.Name),
		slog.Float64("cost", sub.Cost),
		slog.String("billing_cycle", string(sub.BillingCycle)))

	return sub, s.persistLocked(ctx)
}

// Delete removes the record with the given id. An unknown id is a no-op and
// reports false without touching storage.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.subs, func(sub entity.Subscription) bool { return sub.ID == id })
	if idx < 0 {
		return false, nil
	}
	s.subs = slices.Delete(s.subs, idx, idx+1)

	s.log.Debug("subscription deleted", slog.Int64("id", id))

	return true, s.persistLocked(ctx)
}

// List returns a copy of the collection in insertion order
func (s *Store) List() []entity.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.subs)
}

// Totals aggregates the current collection
func (s *Store) Totals() aggregate.Summary {
	return aggregate.Totals(s.List())
}

// Persist writes the whole collection to the slot
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	stored := make([]storedSubscription, 0, len(s.subs))
	for _, sub := range s.subs {
		stored = append(stored, toStored(sub))
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}
	if err := s.slot.Write(ctx, s.key, data); err != nil {
		s.log.Warn("failed to persist subscriptions",
			slog.String("key", s.key),
			slog.Int("count", len(stored)),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// nextIDLocked derives an id from the creation time, moving past the highest
// existing id so that two adds in the same millisecond never collide.
func (s *Store) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	for _, sub := range s.subs {
		if sub.ID >= id {
			id = sub.ID + 1
		}
	}
	return id
}

// fromStored resolves the optional billing cycle. ok is false when the record
// needed migration.
func fromStored(rec storedSubscription) (entity.Subscription, bool) {
	sub := entity.Subscription{
		ID:           rec.ID,
		Name:         rec.Name,
		Cost:         rec.Cost,
		BillingCycle: entity.Monthly,
		CreatedAt:    time.Time(rec.CreatedAt).UTC(),
	}
	if rec.BillingCycle == nil || *rec.BillingCycle == "" {
		return sub, false
	}
	sub.BillingCycle = entity.BillingCycle(*rec.BillingCycle)
	return sub, true
}

func toStored(sub entity.Subscription) storedSubscription {
	cycle := string(sub.BillingCycle)
	return storedSubscription{
		ID:           sub.ID,
		Name:         sub.Name,
		Cost:         sub.Cost,
		BillingCycle: &cycle,
		CreatedAt:    strfmt.DateTime(sub.CreatedAt),
	}
}
