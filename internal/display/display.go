// Package display formats amounts and dates for people.
package display

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Money renders v as dollars with grouping and exactly two decimals, e.g. $1,234.50.
func Money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = math.Abs(v)
	}
	return sign + "$" + printer.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// PerMonth is the "≈ $x/month" hint shown next to non-monthly costs.
func PerMonth(v float64) string {
	return "≈ " + Money(v) + "/month"
}

// Since describes how long ago t was, relative to now, in whole days.
func Since(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	days := int(d / (24 * time.Hour))

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	}
	return t.Local().Format("2006-01-02")
}

// Plural returns "1 active subscription" / "3 active subscriptions".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
