package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"subspend/internal/aggregate"
	"subspend/internal/display"
	"subspend/internal/entity"
	"subspend/internal/export"
	"subspend/internal/usecase"
)

const deletePrompt = "Are you sure you want to delete this subscription? [y/N] "

func newAddCmd(app *App) *cobra.Command {
	var cycle string
	cmd := &cobra.Command{
		Use:   "add NAME COST",
		Short: "Add a subscription",
		Example: `  subs add Netflix 15.99
  subs add "Domain renewal" 120 --cycle yearly`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := usecase.ParseCost(args[1])
			if err != nil {
				return err
			}
			in, err := usecase.Input{Name: args[0], Cost: cost, BillingCycle: cycle}.Normalize()
			if err != nil {
				return err
			}

			return app.withStore(cmd.Context(), func(store *usecase.Store) error {
				sub, err := store.Add(cmd.Context(), in.Name, in.Cost, in.BillingCycle)
				if errors.Is(err, usecase.ErrPersist) {
					fmt.Fprintf(app.Err, "warning: %v\n", err)
				} else if err != nil {
					return err
				}

				fmt.Fprintf(app.Out, "Added %s: %s %s (id %d)\n",
					sub.Name, display.Money(sub.Cost), sub.BillingCycle.OrMonthly(), sub.ID)
				if sub.BillingCycle != entity.Monthly {
					fmt.Fprintln(app.Out, display.PerMonth(aggregate.MonthlyEquivalent(sub.Cost, sub.BillingCycle)))
				}
				printTotalsLine(app, store.Totals())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&cycle, "cycle", "c", string(entity.Monthly), "billing cycle: weekly, monthly or yearly")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subscriptions with their monthly equivalent",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd.Context(), func(store *usecase.Store) error {
				subs := store.List()
				lines := aggregate.Lines(subs)
				sum := aggregate.Totals(subs)
				if asJSON {
					return printListJSON(app.Out, lines, sum)
				}
				printListTable(app.Out, lines, sum, app.now())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newTotalsCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show monthly and yearly spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd.Context(), func(store *usecase.Store) error {
				sum := store.Totals()
				if asJSON {
					return printTotalsJSON(app.Out, sum)
				}
				fmt.Fprintf(app.Out, "Monthly total: %s\n", display.Money(sum.Monthly))
				fmt.Fprintf(app.Out, "Yearly total:  %s\n", display.Money(sum.Yearly))
				fmt.Fprintln(app.Out, display.Plural(sum.Count, "active subscription"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a subscription by id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := usecase.ParseID(args[0])
			if err != nil {
				return err
			}

			return app.withStore(cmd.Context(), func(store *usecase.Store) error {
				var target *entity.Subscription
				for _, s := range store.List() {
					if s.ID == id {
						target = &s
						break
					}
				}
				if target == nil {
					fmt.Fprintf(app.Out, "No subscription with id %d\n", id)
					return nil
				}

				if !yes {
					fmt.Fprintf(app.Out, "%s: %s %s\n", target.Name, display.Money(target.Cost), target.BillingCycle.OrMonthly())
					if !confirm(app, deletePrompt) {
						fmt.Fprintln(app.Out, "Cancelled")
						return nil
					}
				}

				_, err := store.Delete(cmd.Context(), id)
				if errors.Is(err, usecase.ErrPersist) {
					fmt.Fprintf(app.Err, "warning: %v\n", err)
				} else if err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "Deleted %s\n", target.Name)
				printTotalsLine(app, store.Totals())
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export subscriptions to an xlsx spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd.Context(), func(store *usecase.Store) error {
				subs := store.List()

				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				if err := export.WriteXLSX(f, aggregate.Lines(subs), aggregate.Totals(subs)); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close %s: %w", out, err)
				}
				fmt.Fprintf(app.Out, "Exported %s to %s\n", display.Plural(len(subs), "subscription"), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "subscriptions.xlsx", "output file")
	return cmd
}

func confirm(app *App, prompt string) bool {
	fmt.Fprint(app.Out, prompt)
	answer, err := bufio.NewReader(app.In).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func printTotalsLine(app *App, sum aggregate.Summary) {
	fmt.Fprintf(app.Out, "Now %s/month, %s/year across %s\n",
		display.Money(sum.Monthly), display.Money(sum.Yearly), display.Plural(sum.Count, "subscription"))
}
