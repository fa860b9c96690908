// Package aggregate converts subscription costs to a common monthly basis and
// reduces a collection to spending totals. Everything here is pure.
package aggregate

import "subspend/internal/entity"

const (
	weeksPerYear  = 52
	monthsPerYear = 12
)

// Summary holds the aggregate spending of a collection
type Summary struct {
	Count   int
	Monthly float64
	Yearly  float64
}

// Line is a single record together with its monthly equivalent
type Line struct {
	entity.Subscription
	MonthlyEquivalent float64
}

// MonthlyEquivalent normalizes cost charged every cycle to a per-month rate.
// Unrecognized cycles are treated as monthly.
func MonthlyEquivalent(cost float64, cycle entity.BillingCycle) float64 {
	switch cycle.OrMonthly() {
	case entity.Weekly:
		return cost * weeksPerYear / monthsPerYear
	case entity.Yearly:
		return cost / monthsPerYear
	default:
		return cost
	}
}

// Totals sums the monthly equivalents of records. Yearly is Monthly*12.
func Totals(records []entity.Subscription) Summary {
	var monthly float64
	for _, r := range records {
		monthly += MonthlyEquivalent(r.Cost, r.BillingCycle)
	}
	return Summary{
		Count:   len(records),
		Monthly: monthly,
		Yearly:  monthly * monthsPerYear,
	}
}

// Lines pairs every record with its monthly equivalent, keeping order
func Lines(records []entity.Subscription) []Line {
	out := make([]Line, 0, len(records))
	for _, r := range records {
		out = append(out, Line{
			Subscription:      r,
			MonthlyEquivalent: MonthlyEquivalent(r.Cost, r.BillingCycle),
		})
	}
	return out
}
