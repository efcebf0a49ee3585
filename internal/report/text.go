// Package report renders the per-author hours summary.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/djw8605/metric-tools/internal/aggregate"
	"github.com/djw8605/metric-tools/internal/model"
	"github.com/djw8605/metric-tools/internal/window"
)

// NominalWeekHours is the assumed working week used for the capacity
// line.
const NominalWeekHours = 40

// issueClass labels the report lines with the issue population the run
// queried.
const issueClass = "HTCONDOR Improvement"

// PrintSummary writes the final report: the window, per-author totals in
// roster order, the grand total, the nominal capacity, and the percent of
// capacity logged. The grand total is the plain sum of the per-author
// totals, which were already rounded record by record; it is not rounded
// a second time.
func PrintSummary(out io.Writer, win window.DateWindow, roster *model.Roster) {
	fmt.Fprintf(out, "\nBetween %s and %s:\n\n", win.StartDate(), win.EndDate())

	for _, name := range roster.Names() {
		hours, _ := roster.Hours(name)
		fmt.Fprintf(out, "%s logged %s hours\n", name, aggregate.FormatHours(hours))
	}

	total := roster.Total()
	capacity := NominalWeekHours * roster.Len()
	fmt.Fprintf(out, "\nTotal hours logged to %s issues: %s\n", issueClass, aggregate.FormatHours(total))
	fmt.Fprintf(out, "Total developer hours worked (assuming %d-hour work weeks): %d\n", NominalWeekHours, capacity)
	fmt.Fprintf(out, "Percent effort logged to %s issues: %d%%\n\n", issueClass, Percentage(total, capacity))
}

// Percentage returns total as a share of capacity, rounded to the
// nearest whole percent.
func Percentage(total float64, capacity int) int {
	if capacity == 0 {
		return 0
	}
	return int(math.Round(total * 100 / float64(capacity)))
}
