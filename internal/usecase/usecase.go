package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"subspend/internal/entity"
)

//go:generate go run github.com/golang/mock/mockgen@v1.6.0 -destination=usecase_mock.go -package=usecase subspend/internal/usecase Slot

var (
	ErrInvalidSubscription = errors.New("invalid subscription")
	ErrInvalidID           = errors.New("invalid id")
	ErrSlotEmpty           = errors.New("slot is empty")
	ErrSlotRead            = errors.New("read slot")
	ErrPersist             = errors.New("persist subscriptions")
)

// DefaultSlotKey - key under which the collection is stored
const DefaultSlotKey = "subscriptions"

// Slot - a single persistent key-value cell holding the serialized collection
type Slot interface {
	// Read - returns the bytes stored under key, or ErrSlotEmpty if nothing was ever written
	Read(ctx context.Context, key string) ([]byte, error)
	// Write - replaces the bytes stored under key
	Write(ctx context.Context, key string, data []byte) error
}

// Input - user supplied fields of a new subscription
type Input struct {
	Name         string
	Cost         float64
	BillingCycle string
}

// Normalized - validated Input ready to be passed to Store.Add
type Normalized struct {
	Name         string
	Cost         float64
	BillingCycle entity.BillingCycle
}

// Normalize trims the name, checks the cost and resolves the billing cycle.
// Presentation adapters call it before Store.Add.
func (in Input) Normalize() (Normalized, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Normalized{}, fmt.Errorf("%w: empty name", ErrInvalidSubscription)
	}
	if math.IsNaN(in.Cost) || math.IsInf(in.Cost, 0) || in.Cost <= 0 {
		return Normalized{}, fmt.Errorf("%w: cost must be > 0", ErrInvalidSubscription)
	}
	cycle, err := entity.ParseBillingCycle(in.BillingCycle)
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %w", ErrInvalidSubscription, err)
	}
	return Normalized{Name: name, Cost: in.Cost, BillingCycle: cycle}, nil
}

// ParseCost reads a decimal cost typed by the user
func ParseCost(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: invalid cost %q", ErrInvalidSubscription, s)
	}
	return v, nil
}

// ParseID reads a record id as shown in listings
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
