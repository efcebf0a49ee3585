package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/djw8605/metric-tools/internal/window"
)

// --- Test Setup ---

// newFixtureServer serves a minimal JIRA API: one improvement issue with
// a subtask, each carrying one January 2023 work log.
func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"startAt": 0, "maxResults": 50, "total": 1,
			"issues": [{
				"key": "HTCONDOR-100",
				"fields": {
					"summary": "Improve the matchmaker",
					"subtasks": [{"key": "HTCONDOR-101", "fields": {"summary": "Benchmark the matchmaker"}}]
				}
			}]
		}`)
	})
	mux.HandleFunc("/rest/api/2/issue/HTCONDOR-100/worklog", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"startAt": 0, "maxResults": 50, "total": 1,
			"worklogs": [{
				"author": {"displayName": "Greg Thain"},
				"started": "2023-01-15T10:00:00.000-0600",
				"timeSpentSeconds": 8400
			}]
		}`)
	})
	mux.HandleFunc("/rest/api/2/issue/HTCONDOR-101/worklog", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"startAt": 0, "maxResults": 50, "total": 1,
			"worklogs": [{
				"author": {"displayName": "Jaime Frey"},
				"started": "2023-01-17T09:00:00.000-0600",
				"timeSpentSeconds": 4500
			}]
		}`)
	})
	return httptest.NewServer(mux)
}

// executeCommand runs the root command against the fixture server and
// captures stdout and stderr separately.
func executeCommand(t *testing.T, serverURL string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	prev := jiraBaseURL
	jiraBaseURL = serverURL
	t.Cleanup(func() { jiraBaseURL = prev })

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// --- Test Functions ---

func TestParseArgs(t *testing.T) {
	t.Run("accepts the two required flags", func(t *testing.T) {
		opts, err := parseArgs([]string{"-startdate", "2023-01-01", "-enddate", "2023-01-31"})
		if err != nil {
			t.Fatalf("parseArgs failed: %v", err)
		}
		if opts.detailed {
			t.Error("detailed should default to false")
		}
		if got := opts.window.StartDate(); got != "2023-01-01" {
			t.Errorf("window start = %s, want 2023-01-01", got)
		}
		if got := opts.window.EndDate(); got != "2023-01-31" {
			t.Errorf("window end = %s, want 2023-01-31", got)
		}
	})

	t.Run("accepts the detailed flag", func(t *testing.T) {
		opts, err := parseArgs([]string{"-startdate", "2023-01-01", "-enddate", "2023-01-31", "-detailed"})
		if err != nil {
			t.Fatalf("parseArgs failed: %v", err)
		}
		if !opts.detailed {
			t.Error("detailed should be true")
		}
	})

	t.Run("rejects wrong token counts", func(t *testing.T) {
		for _, args := range [][]string{
			{},
			{"-startdate", "2023-01-01"},
			{"-startdate", "2023-01-01", "-enddate"},
			{"-startdate", "2023-01-01", "-enddate", "2023-01-31", "-detailed", "extra"},
		} {
			if _, err := parseArgs(args); !errors.Is(err, errUsage) {
				t.Errorf("parseArgs(%v) error = %v, want usage error", args, err)
			}
		}
	})

	t.Run("rejects unknown flags", func(t *testing.T) {
		_, err := parseArgs([]string{"-begindate", "2023-01-01", "-enddate", "2023-01-31"})
		if !errors.Is(err, errUsage) {
			t.Errorf("error = %v, want usage error", err)
		}
	})

	t.Run("reports date errors as window parse errors", func(t *testing.T) {
		_, err := parseArgs([]string{"-startdate", "2023/01/01", "-enddate", "2023-01-31"})
		var parseErr *window.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("error = %v, want *window.ParseError", err)
		}
		if parseErr.Kind != window.InvalidFormat || parseErr.Field != window.FieldStart {
			t.Errorf("got %+v, want start-date format error", parseErr)
		}
	})
}

func TestDateErrorMessages(t *testing.T) {
	tests := []struct {
		err  *window.ParseError
		want string
	}{
		{
			&window.ParseError{Field: window.FieldStart, Kind: window.InvalidFormat, Value: "2023/01/01"},
			"Error: -startdate argument must take YYYY-MM-DD format",
		},
		{
			&window.ParseError{Field: window.FieldEnd, Kind: window.InvalidFormat, Value: "01-31-2023"},
			"Error: -enddate argument must take YYYY-MM-DD format",
		},
		{
			&window.ParseError{Field: window.FieldStart, Kind: window.InvalidDate, Value: "2023-13-01"},
			"Error: Start date 2023-13-01 is not a valid date",
		},
		{
			&window.ParseError{Field: window.FieldEnd, Kind: window.InvalidDate, Value: "2023-02-30"},
			"Error: End date 2023-02-30 is not a valid date",
		},
	}
	for _, tc := range tests {
		if got := dateErrorMessage(tc.err); got != tc.want {
			t.Errorf("dateErrorMessage = %q, want %q", got, tc.want)
		}
	}
}

func TestRootCommand_Summary(t *testing.T) {
	server := newFixtureServer(t)
	defer server.Close()

	stdout, stderr, err := executeCommand(t, server.URL,
		"-startdate", "2023-01-01", "-enddate", "2023-01-31")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if stderr != "" {
		t.Errorf("expected empty stderr, got %q", stderr)
	}

	for _, want := range []string{
		"Between 2023-01-01 and 2023-01-31:",
		"Greg Thain logged 2.33 hours",
		"Jaime Frey logged 1.25 hours",
		"Tim Theisen logged 0 hours",
		"Total hours logged to HTCONDOR Improvement issues: 3.58",
		"Total developer hours worked (assuming 40-hour work weeks): 360",
		"Percent effort logged to HTCONDOR Improvement issues: 1%",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("summary output missing %q\ngot:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "HTCONDOR-100:") {
		t.Error("issue breakdown should not appear without -detailed")
	}
}

func TestRootCommand_Detailed(t *testing.T) {
	server := newFixtureServer(t)
	defer server.Close()

	stdout, _, err := executeCommand(t, server.URL,
		"-startdate", "2023-01-01", "-enddate", "2023-01-31", "-detailed")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	for _, want := range []string{
		"HTCONDOR-100: Improve the matchmaker",
		"\tGreg Thain worklog, Time spent: 2.33 hr(s), Started: 2023-01-15 10:00:00",
		"\tSubtask HTCONDOR-101: Benchmark the matchmaker",
		"\t\tJaime Frey worklog, Time spent: 1.25 hr(s), Started: 2023-01-17 09:00:00",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("detailed output missing %q\ngot:\n%s", want, stdout)
		}
	}
}

func TestRootCommand_NarrowWindowExcludesEverything(t *testing.T) {
	server := newFixtureServer(t)
	defer server.Close()

	stdout, _, err := executeCommand(t, server.URL,
		"-startdate", "2023-02-01", "-enddate", "2023-02-28", "-detailed")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if strings.Contains(stdout, "HTCONDOR-100:") {
		t.Error("no headers should print when nothing is in window")
	}
	if !strings.Contains(stdout, "Greg Thain logged 0 hours") {
		t.Errorf("all totals should be zero, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Percent effort logged to HTCONDOR Improvement issues: 0%") {
		t.Errorf("percentage should be zero, got:\n%s", stdout)
	}
}

func TestRootCommand_UsageOnBadArgCount(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "http://jira.invalid",
		"-startdate", "2023-01-01")
	if err == nil {
		t.Fatal("expected a usage error")
	}
	if !strings.Contains(stderr, "Usage: improvement-hours -startdate YYYY-MM-DD -enddate YYYY-MM-DD [-detailed]") {
		t.Errorf("usage should go to stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout should stay empty on usage errors, got %q", stdout)
	}
}

func TestRootCommand_DateErrorsOnStdout(t *testing.T) {
	// jira.invalid never resolves: a date error must fail the run
	// before any remote call is attempted.
	stdout, _, err := executeCommand(t, "http://jira.invalid",
		"-startdate", "2023/01/01", "-enddate", "2023-01-31")
	if err == nil {
		t.Fatal("expected a date format error")
	}
	if !strings.Contains(stdout, "Error: -startdate argument must take YYYY-MM-DD format") {
		t.Errorf("format error should go to stdout, got %q", stdout)
	}

	stdout, _, err = executeCommand(t, "http://jira.invalid",
		"-startdate", "2023-01-01", "-enddate", "2023-02-30")
	if err == nil {
		t.Fatal("expected an invalid date error")
	}
	if !strings.Contains(stdout, "Error: End date 2023-02-30 is not a valid date") {
		t.Errorf("date error should go to stdout, got %q", stdout)
	}
}
