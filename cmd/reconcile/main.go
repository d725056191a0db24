/*
main.go - Command-line reconciler

PURPOSE:
  Runs the reconciliation engine over an exported event file without the
  HTTP server. Useful for payroll back-office batch jobs and for checking a
  roster document before deploying it.

COMMANDS:
  reconcile run     Reconcile a JSON array of clock events
  reconcile roster  Print the active roster as JSON or YAML
  reconcile runs    List archived runs in a SQLite database

EXAMPLES:
  # Reconcile a week of events, print a table
  reconcile run --events week.json --timezone America/Bogota

  # Same, with a custom roster, archived into runs.db
  reconcile run --events week.json --roster plant.yaml --db runs.db

  # Validate and print a roster
  reconcile roster --roster plant.yaml --format yaml

SEE ALSO:
  - api/dto.go: EventDTO (event file format)
  - factory/roster.go: Roster documents
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

type rootOptions struct {
	rosterPath string
	timezone   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "reconcile",
		Short:         "Reconcile clock events into resolved workdays",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.rosterPath, "roster", "", "roster document (JSON or YAML); empty uses the built-in roster")
	root.PersistentFlags().StringVar(&opts.timezone, "timezone", "UTC", "plant time zone for naive timestamps and output")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(opts), newRosterCmd(opts), newRunsCmd())
	return root
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %v)", format, allowed)
}
