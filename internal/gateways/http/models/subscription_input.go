package models

import (
	"context"
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// SubscriptionInput body of POST /subscriptions
//
// swagger:model SubscriptionInput
type SubscriptionInput struct {

	// billing cycle, monthly when omitted
	// Enum: ["weekly","monthly","yearly"]
	BillingCycle string `json:"billing_cycle,omitempty"`

	// cost charged every cycle
	// Required: true
	// Minimum: > 0
	Cost *float64 `json:"cost"`

	// service name
	// Required: true
	// Min Length: 1
	Name *string `json:"name"`
}

// Validate validates this subscription input
func (m *SubscriptionInput) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateBillingCycle(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateCost(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateName(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

var subscriptionInputTypeBillingCyclePropEnum []interface{}

func init() {
	var res []string
	if err := json.Unmarshal([]byte(`["weekly","monthly","yearly"]`), &res); err != nil {
		panic(err)
	}
	for _, v := range res {
		subscriptionInputTypeBillingCyclePropEnum = append(subscriptionInputTypeBillingCyclePropEnum, v)
	}
}

func (m *SubscriptionInput) validateBillingCycleEnum(path, location string, value string) error {
	if err := validate.EnumCase(path, location, value, subscriptionInputTypeBillingCyclePropEnum, false); err != nil {
		return err
	}
	return nil
}

func (m *SubscriptionInput) validateBillingCycle(formats strfmt.Registry) error {
	if swag.IsZero(m.BillingCycle) { // not required
		return nil
	}

	if err := m.validateBillingCycleEnum("billing_cycle", "body", m.BillingCycle); err != nil {
		return err
	}

	return nil
}

func (m *SubscriptionInput) validateCost(formats strfmt.Registry) error {

	if err := validate.Required("cost", "body", m.Cost); err != nil {
		return err
	}

	if err := validate.Minimum("cost", "body", *m.Cost, 0, true); err != nil {
		return err
	}

	return nil
}

func (m *SubscriptionInput) validateName(formats strfmt.Registry) error {

	if err := validate.Required("name", "body", m.Name); err != nil {
		return err
	}

	if err := validate.MinLength("name", "body", *m.Name, 1); err != nil {
		return err
	}

	return nil
}

// ContextValidate validates this subscription input based on context it is used
func (m *SubscriptionInput) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *SubscriptionInput) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *SubscriptionInput) UnmarshalBinary(b []byte) error {
	var res SubscriptionInput
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
