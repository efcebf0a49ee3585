package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/djw8605/metric-tools/internal/aggregate"
	"github.com/djw8605/metric-tools/internal/jira"
	"github.com/djw8605/metric-tools/internal/model"
	"github.com/djw8605/metric-tools/internal/report"
	"github.com/djw8605/metric-tools/internal/window"
)

// --- Roster ---

// developerRoster is the fixed set of developers the report covers.
// Looking the roster up from the JIRA group needs authentication, which
// stays out of a publicly runnable tool, so the names are declared here.
// They must match the JIRA account display names exactly.
var developerRoster = []string{
	"Mark Coatsworth",
	"Jaime Frey",
	"John (TJ) Knoeller",
	"Todd L Miller",
	"Zach Miller",
	"Jason Patton",
	"Todd Tannenbaum",
	"Greg Thain",
	"Tim Theisen",
}

// --- Cobra Command Definition ---

// jiraBaseURL is a var so tests can point the command at a fixture
// server.
var jiraBaseURL = jira.BaseURL

// errUsage routes argument mistakes to the usage message on stderr.
var errUsage = errors.New("invalid arguments")

// rootCmd represents the base command. The accepted surface uses
// single-dash long options, so cobra's flag parsing is disabled and the
// run function parses the raw tokens itself.
var rootCmd = &cobra.Command{
	Use:   "improvement-hours -startdate YYYY-MM-DD -enddate YYYY-MM-DD [-detailed]",
	Short: "Report developer hours logged to HTCONDOR Improvement issues.",
	Long: `improvement-hours queries JIRA for all HTCONDOR Improvement issues,
collects the work logs of each issue and its subtasks, and reports the
hours each developer logged inside the given date range.`,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runRoot,
}

// --- Command Execution Logic ---

// options holds the validated command arguments.
type options struct {
	window   window.DateWindow
	detailed bool
}

// parseArgs validates the raw argument tokens. The only accepted shapes
// are the two flag pairs, optionally followed by -detailed, so anything
// other than 4 or 5 tokens is a usage error before any flag is looked
// at. All validation happens before the first remote call.
func parseArgs(args []string) (options, error) {
	if len(args) != 4 && len(args) != 5 {
		return options{}, errUsage
	}

	fs := flag.NewFlagSet("improvement-hours", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	startDate := fs.String("startdate", "", "Start date (YYYY-MM-DD).")
	endDate := fs.String("enddate", "", "End date (YYYY-MM-DD).")
	detailed := fs.Bool("detailed", false, "Show detailed per-issue results.")
	if err := fs.Parse(args); err != nil {
		return options{}, errUsage
	}
	if fs.NArg() != 0 || *startDate == "" || *endDate == "" {
		return options{}, errUsage
	}

	win, err := window.New(*startDate, *endDate)
	if err != nil {
		return options{}, err
	}
	return options{window: win, detailed: *detailed}, nil
}

// dateErrorMessage renders a window.ParseError the way the tool reports
// bad date arguments on stdout.
func dateErrorMessage(e *window.ParseError) string {
	if e.Kind == window.InvalidFormat {
		return fmt.Sprintf("Error: -%s argument must take YYYY-MM-DD format", e.Field)
	}
	side := "Start"
	if e.Field == window.FieldEnd {
		side = "End"
	}
	return fmt.Sprintf("Error: %s date %s is not a valid date", side, e.Value)
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Usage: %s -startdate YYYY-MM-DD -enddate YYYY-MM-DD [-detailed]\n", cmd.CommandPath())
			return err
		}
		var parseErr *window.ParseError
		if errors.As(err, &parseErr) {
			fmt.Fprintln(cmd.OutOrStdout(), dateErrorMessage(parseErr))
			return err
		}
		return err
	}

	roster := model.NewRoster(developerRoster)
	agg := aggregate.New(opts.window, roster, aggregate.Config{
		Detailed: opts.detailed,
		Out:      cmd.OutOrStdout(),
	})

	client := jira.NewClient(jiraBaseURL)
	if err := aggregate.Collect(cmd.Context(), client, agg); err != nil {
		slog.Error("failed to collect work logs", "error", err)
		return err
	}

	report.PrintSummary(cmd.OutOrStdout(), opts.window, roster)
	return nil
}

// --- Main Application Entry Point ---

// Execute runs the root command and maps any failure to a non-zero exit.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	// Setup structured JSON logger for errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	Execute()
}
