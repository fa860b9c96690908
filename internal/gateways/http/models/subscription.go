package models

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
)

// Subscription stored subscription with its monthly equivalent
//
// swagger:model Subscription
type Subscription struct {

	// relative creation date, e.g. "3 days ago"
	Added string `json:"added"`

	// billing cycle
	BillingCycle string `json:"billing_cycle"`

	// cost
	Cost float64 `json:"cost"`

	// created at
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"created_at"`

	// id
	ID int64 `json:"id"`

	// cost normalized to one month
	MonthlyEquivalent float64 `json:"monthly_equivalent"`

	// name
	Name string `json:"name"`
}

// MarshalBinary interface implementation
func (m *Subscription) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// Totals aggregate spending
//
// swagger:model Totals
type Totals struct {

	// number of subscriptions
	Count int64 `json:"count"`

	// monthly total
	MonthlyTotal float64 `json:"monthly_total"`

	// yearly total
	YearlyTotal float64 `json:"yearly_total"`
}

// MarshalBinary interface implementation
func (m *Totals) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}
