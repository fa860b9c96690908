// Package cli is the subs command line front end.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"subspend/internal/config"
	"subspend/internal/logger"
	"subspend/internal/repository/slot"
	"subspend/internal/usecase"
)

// Options are the global flags every command sees
type Options struct {
	ConfigPath string
	Verbose    bool
}

// StoreOpener returns a loaded store and whatever must be closed after the command.
type StoreOpener func(ctx context.Context, opts Options) (*usecase.Store, io.Closer, error)

// App carries the command IO and dependencies.
type App struct {
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	OpenStore StoreOpener
	Now       func() time.Time

	opts Options
}

// NewApp wires the app to the process streams and the configured storage.
func NewApp() *App {
	return &App{
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		OpenStore: ConfigOpener(os.Stderr),
		Now:       time.Now,
	}
}

// ConfigOpener loads the config file and opens the storage it names. Logs
// go to errOut so they never mix with table or JSON output.
func ConfigOpener(errOut io.Writer) StoreOpener {
	return func(ctx context.Context, opts Options) (*usecase.Store, io.Closer, error) {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, nil, err
		}
		log := logger.NewText(errOut, slog.LevelWarn)
		if opts.Verbose {
			log = logger.New(cfg.Env, errOut)
		}
		return slot.OpenStore(ctx, cfg, log)
	}
}

// NewRootCmd builds the subs command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "subs",
		Short:         "Track recurring subscription spending",
		Long:          "Keeps a list of subscriptions with their cost and billing cycle and shows what they add up to per month and per year.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	root.PersistentFlags().StringVar(&app.opts.ConfigPath, "config", "", "path to config file (default: configs/local.yaml or ~/.subspend/config.yaml)")
	root.PersistentFlags().BoolVarP(&app.opts.Verbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newTotalsCmd(app),
		newDeleteCmd(app),
		newExportCmd(app),
	)
	return root
}

// withStore opens the store for the duration of fn.
func (a *App) withStore(ctx context.Context, fn func(*usecase.Store) error) error {
	store, closer, err := a.OpenStore(ctx, a.opts)
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(store)
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
