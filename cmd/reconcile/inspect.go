package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/warp/shift-reconciler/factory"
	"github.com/warp/shift-reconciler/store/sqlite"
)

// =============================================================================
// ROSTER COMMAND
// =============================================================================

func newRosterCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Validate and print the active roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "json", "yaml"); err != nil {
				return err
			}
			roster, err := loadRoster(root.rosterPath)
			if err != nil {
				return err
			}

			doc := factory.NewRosterFactory().ToJSON(roster)
			out := cmd.OutOrStdout()
			if format == "yaml" {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					enc.Close()
					return err
				}
				return enc.Close()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml)")
	return cmd
}

// =============================================================================
// RUNS COMMAND
// =============================================================================

func newRunsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			tbl := newTable("Archived runs", "RUN", "CREATED", "ROSTER", "PERIOD", "RESOLVED")
			for _, r := range runs {
				period := "-"
				if !r.Period.Start.IsZero() {
					period = fmt.Sprintf("%s..%s", r.Period.Start, r.Period.End)
				}
				tbl.addRow(r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.RosterID, period, strconv.Itoa(r.Stats.Resolved))
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tbl.render())
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "runs.db", "SQLite database path")
	return cmd
}
