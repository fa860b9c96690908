package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"subspend/internal/entity"
	"subspend/internal/logger"
	"subspend/internal/repository/slot/file"
	"subspend/internal/usecase"
)

var testNow = time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)

func init() {
	text.DisableColors()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// testApp shares one store across invocations, like a persisted slot would.
func testApp(t *testing.T, stdin string) (*App, *usecase.Store, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	store := usecase.NewStore(file.NewMemory(),
		usecase.WithLogger(logger.Discard()),
		usecase.WithClock(func() time.Time { return testNow }))
	require.NoError(t, store.Load(context.Background()))

	var out, errOut bytes.Buffer
	app := &App{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
		OpenStore: func(ctx context.Context, opts Options) (*usecase.Store, io.Closer, error) {
			return store, nopCloser{}, nil
		},
		Now: func() time.Time { return testNow.Add(3 * 24 * time.Hour) },
	}
	return app, store, &out, &errOut
}

func run(app *App, args ...string) error {
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestAdd(t *testing.T) {
	app, store, out, _ := testApp(t, "")

	require.NoError(t, run(app, "add", "Netflix", "12"))
	require.NoError(t, run(app, "add", "Domain", "120", "--cycle", "yearly"))

	subs := store.List()
	require.Len(t, subs, 2)
	assert.Equal(t, entity.Monthly, subs[0].BillingCycle)
	assert.Equal(t, entity.Yearly, subs[1].BillingCycle)

	assert.Contains(t, out.String(), "Added Netflix: $12.00 monthly")
	assert.Contains(t, out.String(), "≈ $10.00/month")
	assert.Contains(t, out.String(), "Now $22.00/month, $264.00/year across 2 subscriptions")
}

func TestAdd_Invalid(t *testing.T) {
	tcases := []struct {
		Name string
		Args []string
		Err  error
	}{
		{Name: "zero cost", Args: []string{"add", "Netflix", "0"}, Err: usecase.ErrInvalidSubscription},
		{Name: "not a number", Args: []string{"add", "Netflix", "ten"}, Err: usecase.ErrInvalidSubscription},
		{Name: "blank name", Args: []string{"add", "  ", "5"}, Err: usecase.ErrInvalidSubscription},
		{Name: "unknown cycle", Args: []string{"add", "Gym", "5", "--cycle", "daily"}, Err: entity.ErrUnknownBillingCycle},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			app, store, _, _ := testApp(t, "")
			err := run(app, tc.Args...)
			assert.ErrorIs(t, err, tc.Err)
			assert.Empty(t, store.List())
		})
	}

	app, _, _, _ := testApp(t, "")
	assert.Error(t, run(app, "add", "OnlyName"))
}

func TestList(t *testing.T) {
	app, _, out, _ := testApp(t, "")

	require.NoError(t, run(app, "list"))
	assert.Contains(t, out.String(), "No subscriptions yet")

	require.NoError(t, run(app, "add", "Gym", "10", "--cycle", "weekly"))
	out.Reset()
	require.NoError(t, run(app, "list"))

	s := out.String()
	assert.Contains(t, s, "Gym")
	assert.Contains(t, s, "Weekly")
	assert.Contains(t, s, "$10.00")
	assert.Contains(t, s, "$43.33")
	assert.Contains(t, s, "$520.00")
	assert.Contains(t, s, "3 days ago")
	assert.Contains(t, s, "1 active subscription\n")
}

func TestList_JSON(t *testing.T) {
	app, store, out, _ := testApp(t, "")
	require.NoError(t, run(app, "add", "Netflix", "12"))
	require.NoError(t, run(app, "add", "Domain", "120", "-c", "yearly"))
	out.Reset()

	require.NoError(t, run(app, "list", "--json"))

	var got JSONOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Subscriptions, 2)
	assert.Equal(t, store.List()[0].ID, got.Subscriptions[0].ID)
	assert.Equal(t, "yearly", got.Subscriptions[1].BillingCycle)
	assert.InDelta(t, 10, got.Subscriptions[1].MonthlyEquivalent, 1e-9)
	assert.Equal(t, "2025-08-17T10:00:00.000Z", got.Subscriptions[0].CreatedAt)
	assert.Equal(t, JSONSummary{Count: 2, MonthlyTotal: 22, YearlyTotal: 264}, got.Summary)
}

func TestList_JSONUnknownCycle(t *testing.T) {
	ctx := context.Background()
	slot := file.NewMemory()
	require.NoError(t, slot.Write(ctx, usecase.DefaultSlotKey, []byte(
		`[{"id":1,"name":"Paper","cost":30,"billingCycle":"quarterly","createdAt":"2025-01-01T00:00:00.000Z"}]`)))
	store := usecase.NewStore(slot, usecase.WithLogger(logger.Discard()))
	require.NoError(t, store.Load(ctx))

	app, _, out, _ := testApp(t, "")
	app.OpenStore = func(context.Context, Options) (*usecase.Store, io.Closer, error) {
		return store, nopCloser{}, nil
	}

	require.NoError(t, run(app, "list", "--json"))

	var got JSONOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Subscriptions, 1)
	assert.Equal(t, "monthly", got.Subscriptions[0].BillingCycle)
	assert.InDelta(t, 30, got.Subscriptions[0].MonthlyEquivalent, 1e-9)
}

func TestTotals(t *testing.T) {
	app, _, out, _ := testApp(t, "")
	require.NoError(t, run(app, "add", "Netflix", "12"))
	require.NoError(t, run(app, "add", "Domain", "120", "--cycle", "yearly"))
	out.Reset()

	require.NoError(t, run(app, "totals"))
	assert.Contains(t, out.String(), "Monthly total: $22.00")
	assert.Contains(t, out.String(), "Yearly total:  $264.00")
	assert.Contains(t, out.String(), "2 active subscriptions")

	out.Reset()
	require.NoError(t, run(app, "totals", "--json"))
	assert.JSONEq(t, `{"count":2,"monthly_total":22,"yearly_total":264}`, out.String())
}

func TestDelete(t *testing.T) {
	tcases := []struct {
		Name    string
		Stdin   string
		Flags   []string
		Removed bool
	}{
		{Name: "confirmed", Stdin: "y\n", Removed: true},
		{Name: "confirmed yes", Stdin: "YES\n", Removed: true},
		{Name: "declined", Stdin: "n\n", Removed: false},
		{Name: "default is no", Stdin: "\n", Removed: false},
		{Name: "no input", Stdin: "", Removed: false},
		{Name: "skip prompt", Flags: []string{"--yes"}, Removed: true},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			app, store, out, _ := testApp(t, tc.Stdin)
			require.NoError(t, run(app, "add", "Netflix", "12"))
			id := strconv.FormatInt(store.List()[0].ID, 10)
			out.Reset()

			require.NoError(t, run(app, append([]string{"delete", id}, tc.Flags...)...))

			if tc.Removed {
				assert.Empty(t, store.List())
				assert.Contains(t, out.String(), "Deleted Netflix")
			} else {
				assert.Len(t, store.List(), 1)
				assert.Contains(t, out.String(), "Cancelled")
			}
			if len(tc.Flags) == 0 {
				assert.Contains(t, out.String(), deletePrompt)
			} else {
				assert.NotContains(t, out.String(), deletePrompt)
			}
		})
	}
}

func TestDelete_UnknownAndInvalid(t *testing.T) {
	app, store, out, _ := testApp(t, "y\n")
	require.NoError(t, run(app, "add", "Netflix", "12"))

	require.NoError(t, run(app, "delete", "42"))
	assert.Contains(t, out.String(), "No subscription with id 42")
	assert.Len(t, store.List(), 1)

	assert.ErrorIs(t, run(app, "delete", "abc"), usecase.ErrInvalidID)
}

func TestExport(t *testing.T) {
	app, _, out, _ := testApp(t, "")
	require.NoError(t, run(app, "add", "Netflix", "12"))

	path := filepath.Join(t.TempDir(), "subs.xlsx")
	require.NoError(t, run(app, "export", "--out", path))
	assert.Contains(t, out.String(), "Exported 1 subscription to "+path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Subscriptions", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Netflix", v)
}

func TestConfigOpener(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("ENV_FILE", "")
	t.Setenv("CONFIG_PG_PATH", "")

	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "data", "subs.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0o700))
	require.NoError(t, os.WriteFile(cfgPath, []byte("env: local\nstorage:\n  driver: bolt\n  path: "+dbPath+"\n"), 0o600))

	var out, errOut bytes.Buffer
	app := &App{In: strings.NewReader(""), Out: &out, Err: &errOut, OpenStore: ConfigOpener(&errOut)}

	require.NoError(t, run(app, "--config", cfgPath, "add", "Spotify", "10.99"))
	out.Reset()
	require.NoError(t, run(app, "--config", cfgPath, "list", "--json"))

	var got JSONOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Subscriptions, 1)
	assert.Equal(t, "Spotify", got.Subscriptions[0].Name)
	assert.Empty(t, errOut.String())
}
