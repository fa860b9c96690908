package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"subspend/internal/entity"
)

func TestMonthlyEquivalent(t *testing.T) {
	tcases := []struct {
		Name  string
		Cost  float64
		Cycle entity.BillingCycle
		Want  float64
	}{
		{Name: "monthly is identity", Cost: 9.99, Cycle: entity.Monthly, Want: 9.99},
		{Name: "yearly divided by 12", Cost: 120, Cycle: entity.Yearly, Want: 10},
		{Name: "weekly times 52 over 12", Cost: 3, Cycle: entity.Weekly, Want: 13},
		{Name: "empty cycle is monthly", Cost: 15, Cycle: "", Want: 15},
		{Name: "unknown cycle is monthly", Cost: 15, Cycle: "daily", Want: 15},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.InDelta(t, tc.Want, MonthlyEquivalent(tc.Cost, tc.Cycle), 1e-9)
		})
	}
}

func TestMonthlyEquivalent_Linear(t *testing.T) {
	costs := []float64{0.01, 1, 4.99, 12, 120, 1234.56}
	factors := []float64{0.5, 2, 3, 10}
	for _, cycle := range entity.BillingCycles {
		for _, c := range costs {
			for _, k := range factors {
				assert.InDelta(t, k*MonthlyEquivalent(c, cycle), MonthlyEquivalent(k*c, cycle), 1e-9,
					"cycle=%s cost=%v k=%v", cycle, c, k)
			}
		}
	}
}

func TestTotals(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Summary{}, Totals(nil))
		assert.Equal(t, Summary{}, Totals([]entity.Subscription{}))
	})

	t.Run("monthly and yearly", func(t *testing.T) {
		got := Totals([]entity.Subscription{
			{ID: 1, Name: "Netflix", Cost: 12, BillingCycle: entity.Monthly},
			{ID: 2, Name: "Domain", Cost: 120, BillingCycle: entity.Yearly},
		})
		assert.Equal(t, Summary{Count: 2, Monthly: 22, Yearly: 264}, got)
	})

	t.Run("legacy record without cycle counts as monthly", func(t *testing.T) {
		got := Totals([]entity.Subscription{
			{ID: 1, Name: "Old", Cost: 5},
			{ID: 2, Name: "Gym", Cost: 6, BillingCycle: entity.Weekly},
		})
		assert.Equal(t, 2, got.Count)
		assert.InDelta(t, 5+26.0, got.Monthly, 1e-9)
		assert.InDelta(t, got.Monthly*12, got.Yearly, 1e-9)
	})
}

func TestLines(t *testing.T) {
	created := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	records := []entity.Subscription{
		{ID: 3, Name: "C", Cost: 24, BillingCycle: entity.Yearly, CreatedAt: created},
		{ID: 1, Name: "A", Cost: 7, BillingCycle: entity.Monthly, CreatedAt: created},
	}

	got := Lines(records)

	if assert.Len(t, got, 2) {
		assert.Equal(t, int64(3), got[0].ID)
		assert.InDelta(t, 2.0, got[0].MonthlyEquivalent, 1e-9)
		assert.Equal(t, int64(1), got[1].ID)
		assert.InDelta(t, 7.0, got[1].MonthlyEquivalent, 1e-9)
	}
}
