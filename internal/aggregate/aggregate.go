// Package aggregate filters work-log records by a date window and
// accumulates hours per roster author.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/djw8605/metric-tools/internal/model"
	"github.com/djw8605/metric-tools/internal/window"
)

// UnknownAuthorPolicy decides what happens when a record's author is not
// on the roster.
type UnknownAuthorPolicy int

const (
	// FailOnUnknown aborts the run. An off-roster author means the
	// roster is stale, and skipping would silently understate totals.
	FailOnUnknown UnknownAuthorPolicy = iota
	// SkipUnknown logs a warning and drops the record.
	SkipUnknown
)

// UnknownAuthorError reports a work-log author missing from the roster.
type UnknownAuthorError struct {
	Author string
}

func (e *UnknownAuthorError) Error() string {
	return fmt.Sprintf("work-log author %q is not on the roster", e.Author)
}

// Entry is one work-log record with the issue it was logged against.
// Subtask is nil when the record sits on the issue's own work log.
type Entry struct {
	Issue   model.IssueRef
	Subtask *model.IssueRef
	Record  model.WorkLogRecord
}

// Config tunes an Aggregator.
type Config struct {
	// Detailed enables the per-record breakdown written to Out.
	Detailed bool
	// Out receives detail lines. Ignored unless Detailed is set.
	Out io.Writer
	// OnUnknownAuthor defaults to FailOnUnknown.
	OnUnknownAuthor UnknownAuthorPolicy
}

// Aggregator consumes entries in source order and accumulates in-window
// hours into the roster. Not safe for concurrent use; the whole run is
// single-threaded.
type Aggregator struct {
	win    window.DateWindow
	roster *model.Roster
	cfg    Config

	// lastScope tracks which issue or subtask the previous detail header
	// belonged to, so each scope's header prints once.
	lastScope string
}

// New builds an aggregator over the given window and roster.
func New(win window.DateWindow, roster *model.Roster, cfg Config) *Aggregator {
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	return &Aggregator{win: win, roster: roster, cfg: cfg}
}

// Add processes one entry. Out-of-window records are ignored. In-window
// records have their hours rounded to 2 decimals, are credited to the
// author, and in detailed mode are printed under their scope's header.
func (a *Aggregator) Add(e Entry) error {
	started, err := ParseStarted(e.Record.Started)
	if err != nil {
		return fmt.Errorf("work log on %s: %w", e.scopeKey(), err)
	}
	if !a.win.Contains(started) {
		return nil
	}

	hours := RoundHours(e.Record.Hours())

	if a.cfg.Detailed {
		a.printDetail(e, hours, started)
	}

	if !a.roster.Add(e.Record.Author, hours) {
		if a.cfg.OnUnknownAuthor == SkipUnknown {
			slog.Warn("skipping work log from unknown author",
				"author", e.Record.Author, "issue", e.scopeKey())
			return nil
		}
		return &UnknownAuthorError{Author: e.Record.Author}
	}
	return nil
}

func (e Entry) scopeKey() string {
	if e.Subtask != nil {
		return e.Subtask.Key
	}
	return e.Issue.Key
}

func (a *Aggregator) printDetail(e Entry, hours float64, started time.Time) {
	scope := "issue/" + e.Issue.Key
	header := fmt.Sprintf("%s: %s", e.Issue.Key, e.Issue.Summary)
	indent := "\t"
	if e.Subtask != nil {
		scope = "subtask/" + e.Subtask.Key
		header = fmt.Sprintf("\tSubtask %s: %s", e.Subtask.Key, e.Subtask.Summary)
		indent = "\t\t"
	}
	if scope != a.lastScope {
		fmt.Fprintln(a.cfg.Out, header)
		a.lastScope = scope
	}
	fmt.Fprintf(a.cfg.Out, "%s%s worklog, Time spent: %s hr(s), Started: %s\n",
		indent, e.Record.Author, FormatHours(hours), started.Format("2006-01-02 15:04:05"))
}

// RoundHours rounds to 2 decimal places, half away from zero. Rounding
// happens per record, before accumulation.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// FormatHours renders an hour value in shortest-decimal form, so 2.33
// stays 2.33 and 2.50 prints as 2.5.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// Source supplies issues and their work logs. The production
// implementation is the Jira client; tests substitute synthetic sources.
type Source interface {
	SearchIssues(ctx context.Context) ([]model.Issue, error)
	Worklogs(ctx context.Context, issueKey string) ([]model.WorkLogRecord, error)
}

// Collect walks the source and feeds the aggregator a flat sequence of
// entries: issues in source order, each issue's own work log first, then
// each subtask's in turn. Any source or aggregation error aborts the
// walk.
func Collect(ctx context.Context, src Source, agg *Aggregator) error {
	issues, err := src.SearchIssues(ctx)
	if err != nil {
		return fmt.Errorf("searching issues: %w", err)
	}

	for _, issue := range issues {
		records, err := src.Worklogs(ctx, issue.Key)
		if err != nil {
			return fmt.Errorf("fetching work logs for %s: %w", issue.Key, err)
		}
		for _, rec := range records {
			if err := agg.Add(Entry{Issue: issue.IssueRef, Record: rec}); err != nil {
				return err
			}
		}

		for _, subtask := range issue.Subtasks {
			records, err := src.Worklogs(ctx, subtask.Key)
			if err != nil {
				return fmt.Errorf("fetching work logs for %s: %w", subtask.Key, err)
			}
			for _, rec := range records {
				entry := Entry{Issue: issue.IssueRef, Subtask: &subtask, Record: rec}
				if err := agg.Add(entry); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
