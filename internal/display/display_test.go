package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tcases := []struct {
		In   float64
		Want string
	}{
		{In: 0, Want: "$0.00"},
		{In: 9.99, Want: "$9.99"},
		{In: 12, Want: "$12.00"},
		{In: 1234.5, Want: "$1,234.50"},
		{In: 43.333333, Want: "$43.33"},
		{In: 1_000_000, Want: "$1,000,000.00"},
		{In: -5.5, Want: "-$5.50"},
	}
	for _, tc := range tcases {
		assert.Equal(t, tc.Want, Money(tc.In), "%v", tc.In)
	}
	assert.Equal(t, "≈ $10.00/month", PerMonth(10))
}

func TestSince(t *testing.T) {
	now := time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tcases := []struct {
		Name string
		At   time.Time
		Want string
	}{
		{Name: "same moment", At: now, Want: "today"},
		{Name: "hours ago", At: now.Add(-23 * time.Hour), Want: "today"},
		{Name: "one day", At: now.Add(-day), Want: "yesterday"},
		{Name: "six days", At: now.Add(-6 * day), Want: "6 days ago"},
		{Name: "seven days", At: now.Add(-7 * day), Want: "1 weeks ago"},
		{Name: "29 days", At: now.Add(-29 * day), Want: "4 weeks ago"},
		{Name: "30 days", At: now.Add(-30 * day), Want: "1 months ago"},
		{Name: "364 days", At: now.Add(-364 * day), Want: "12 months ago"},
		{Name: "future counts as distance", At: now.Add(2 * day), Want: "2 days ago"},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, Since(tc.At, now))
		})
	}

	old := now.Add(-400 * day)
	assert.Equal(t, old.Local().Format("2006-01-02"), Since(old, now))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 active subscription", Plural(1, "active subscription"))
	assert.Equal(t, "0 active subscriptions", Plural(0, "active subscription"))
	assert.Equal(t, "2 active subscriptions", Plural(2, "active subscription"))
}
