package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"subspend/internal/aggregate"
	"subspend/internal/display"
	"subspend/internal/entity"
)

// JSONOutput is the root object of list --json
type JSONOutput struct {
	Subscriptions []JSONSubscription `json:"subscriptions"`
	Summary       JSONSummary        `json:"summary"`
}

// JSONSummary is the totals --json object
type JSONSummary struct {
	Count        int     `json:"count"`
	MonthlyTotal float64 `json:"monthly_total"`
	YearlyTotal  float64 `json:"yearly_total"`
}

type JSONSubscription struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Cost              float64 `json:"cost"`
	BillingCycle      string  `json:"billing_cycle"`
	MonthlyEquivalent float64 `json:"monthly_equivalent"`
	CreatedAt         string  `json:"created_at"`
}

func toJSONSummary(sum aggregate.Summary) JSONSummary {
	return JSONSummary{Count: sum.Count, MonthlyTotal: sum.Monthly, YearlyTotal: sum.Yearly}
}

func printListJSON(w io.Writer, lines []aggregate.Line, sum aggregate.Summary) error {
	subs := make([]JSONSubscription, 0, len(lines))
	for _, l := range lines {
		subs = append(subs, JSONSubscription{
			ID:                l.ID,
			Name:              l.Name,
			Cost:              l.Cost,
			BillingCycle:      string(l.BillingCycle.OrMonthly()),
			MonthlyEquivalent: l.MonthlyEquivalent,
			CreatedAt:         l.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(JSONOutput{Subscriptions: subs, Summary: toJSONSummary(sum)})
}

func printTotalsJSON(w io.Writer, sum aggregate.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSONSummary(sum))
}

// cycleBadge colours the cycle name: weekly green, monthly blue, yearly magenta.
func cycleBadge(c entity.BillingCycle) string {
	switch c.OrMonthly() {
	case entity.Weekly:
		return text.FgGreen.Sprint(c.Label())
	case entity.Yearly:
		return text.FgMagenta.Sprint(c.Label())
	default:
		return text.FgBlue.Sprint(c.Label())
	}
}

func printListTable(w io.Writer, lines []aggregate.Line, sum aggregate.Summary, now time.Time) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "No subscriptions yet")
		fmt.Fprintln(w, `Add one with: subs add NAME COST [--cycle weekly|monthly|yearly]`)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Cycle", "Cost", "≈ Monthly", "Added"})

	for _, l := range lines {
		monthly := display.Money(l.MonthlyEquivalent)
		if l.BillingCycle.OrMonthly() == entity.Monthly {
			monthly = text.FgHiBlack.Sprint(monthly)
		}
		t.AppendRow(table.Row{
			l.ID,
			l.Name,
			cycleBadge(l.BillingCycle),
			display.Money(l.Cost),
			monthly,
			display.Since(l.CreatedAt, now),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Monthly"), text.Bold.Sprint(display.Money(sum.Monthly)), ""})
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Yearly"), text.Bold.Sprint(display.Money(sum.Yearly)), ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	t.Render()
	fmt.Fprintln(w, display.Plural(sum.Count, "active subscription"))
}
