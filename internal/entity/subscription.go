package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BillingCycle - recurrence period of a subscription charge
type BillingCycle string

const (
	Weekly  BillingCycle = "weekly"
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

// BillingCycles lists every supported cycle in display order
var BillingCycles = []BillingCycle{Weekly, Monthly, Yearly}

var ErrUnknownBillingCycle = errors.New("unknown billing cycle")

// ParseBillingCycle reads a user supplied cycle. An empty value means monthly.
func ParseBillingCycle(s string) (BillingCycle, error) {
	c := BillingCycle(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return Monthly, nil
	}
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBillingCycle, s)
	}
	return c, nil
}

// Valid reports whether c is one of the supported cycles
func (c BillingCycle) Valid() bool {
	switch c {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// OrMonthly returns c, or Monthly when c is empty or unrecognized.
func (c BillingCycle) OrMonthly() BillingCycle {
	if c.Valid() {
		return c
	}
	return Monthly
}

// Label is the capitalized display name of the cycle
func (c BillingCycle) Label() string {
	switch c.OrMonthly() {
	case Weekly:
		return "Weekly"
	case Yearly:
		return "Yearly"
	default:
		return "Monthly"
	}
}

// Subscription - a recurring expense recorded by the user
type Subscription struct {
	// ID - unique record id, derived from the creation time in milliseconds
	ID int64
	// Name - user supplied label
	Name string
	// Cost - charge per billing cycle
	Cost float64
	// BillingCycle - recurrence period of Cost
	BillingCycle BillingCycle
	// CreatedAt - creation time (UTC, millisecond precision)
	CreatedAt time.Time
}
