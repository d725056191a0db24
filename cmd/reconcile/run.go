package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/shift-reconciler/api"
	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/factory"
	"github.com/warp/shift-reconciler/logger"
	"github.com/warp/shift-reconciler/store/sqlite"
)

// =============================================================================
// RUN COMMAND
// =============================================================================

type runOptions struct {
	*rootOptions
	eventsPath string
	format     string
	dbPath     string
	workers    int
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile a JSON array of clock events",
		Long: `Reads a JSON array of events (worker_id, timestamp, checkpoint, class,
direction), resolves one workday per worker and date, and prints the days
followed by per-worker totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}
	cmd.Flags().StringVar(&opts.eventsPath, "events", "", "event file, - for stdin")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format (table, json)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "archive the run into this SQLite database")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel groups, 0 means GOMAXPROCS")
	cmd.MarkFlagRequired("events")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	if err := checkFormat(o.format, "table", "json"); err != nil {
		return err
	}
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
	}
	roster, err := loadRoster(o.rosterPath)
	if err != nil {
		return err
	}

	log := logger.New(o.logLevel, "console")
	defer logger.Sync(log)

	events, err := readEvents(cmd.InOrStdin(), o.eventsPath, loc)
	if err != nil {
		return err
	}

	rec, err := attendance.NewReconciler(roster.Catalog, roster.Rules,
		attendance.WithLogger(log.Named("reconciler")),
		attendance.WithWorkers(o.workers),
	)
	if err != nil {
		return err
	}
	res, err := rec.Reconcile(cmd.Context(), events)
	if err != nil {
		return err
	}

	resp := api.NewReconcileResponse(res, loc)
	if o.dbPath != "" {
		store, err := sqlite.New(o.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := attendance.NewArchive(store).Record(cmd.Context(), roster.ID, res)
		if err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
		resp.RunID = run.ID
		log.Info("run archived", zap.String("run_id", run.ID), zap.String("db", o.dbPath))
	}

	out := cmd.OutOrStdout()
	if o.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return writeTable(out, resp)
}

func loadRoster(path string) (*factory.Roster, error) {
	if path == "" {
		return factory.DefaultRoster(), nil
	}
	return factory.NewRosterFactory().LoadFile(path)
}

func readEvents(stdin io.Reader, path string, loc *time.Location) ([]attendance.RawEvent, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	var dtos []api.EventDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	return api.ParseEvents(dtos, loc)
}

// =============================================================================
// TABLE OUTPUT
// =============================================================================

func writeTable(out io.Writer, resp *api.ReconcileResponse) error {
	days := newTable("Resolved days", "WORKER", "DATE", "SHIFT", "ENTRY", "EXIT", "NET", "OVERTIME", "LATE", "STATUS")
	for _, d := range resp.Days {
		exit := clock(d.Exit)
		if !d.ExitObserved {
			exit += "*"
		}
		days.addRow(d.WorkerID, d.Date, d.ShiftID, clock(d.Entry), exit,
			hoursCell(d.NetHours), hoursCell(d.OvertimeHours), yesNo(d.Late), d.StatusDescription)
	}

	totals := newTable("Worker totals", "WORKER", "NAME", "DAYS", "NET", "OVERTIME", "LATE", "ASSUMED")
	for _, s := range resp.Summaries {
		totals.addRow(s.WorkerID, s.WorkerName, strconv.Itoa(s.Days),
			hoursCell(s.NetHours), hoursCell(s.OvertimeHours), strconv.Itoa(s.LateDays), strconv.Itoa(s.AssumedExits))
	}

	st := resp.Stats
	if _, err := fmt.Fprintf(out, "%s\n%s\n%d events, %d groups, %d unmatched, %d boundary dropped, %d resolved\n",
		days.render(), totals.render(),
		st.Events, st.Groups, st.Unmatched, st.BoundaryDropped, st.Resolved); err != nil {
		return err
	}
	if resp.RunID != "" {
		fmt.Fprintf(out, "archived as run %s\n", resp.RunID)
	}
	return nil
}

func hoursCell(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// clock shortens an RFC3339 stamp to "01-02 15:04".
func clock(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
