// Package model defines the core data structures for the hours report.
package model

// WorkLogRecord is a single work-log entry as returned by the issue
// tracker. Started is kept as the raw timestamp string; the aggregator
// owns its interpretation.
type WorkLogRecord struct {
	Author           string
	Started          string
	TimeSpentSeconds int
}

// Hours converts the logged duration to hours.
func (r WorkLogRecord) Hours() float64 {
	return float64(r.TimeSpentSeconds) / 3600
}

// IssueRef identifies an issue or subtask by key and summary.
type IssueRef struct {
	Key     string
	Summary string
}

// Issue is a top-level issue together with its subtasks.
type Issue struct {
	IssueRef
	Subtasks []IssueRef
}

// Roster is a fixed, ordered set of author names with accumulated hour
// totals. The set of names never changes after construction; only the
// totals do.
type Roster struct {
	names []string
	hours map[string]float64
}

// NewRoster builds a roster with every author's total at zero. Order is
// preserved for reporting.
func NewRoster(names []string) *Roster {
	r := &Roster{
		names: make([]string, 0, len(names)),
		hours: make(map[string]float64, len(names)),
	}
	for _, name := range names {
		if _, dup := r.hours[name]; dup {
			continue
		}
		r.names = append(r.names, name)
		r.hours[name] = 0
	}
	return r
}

// Names returns the author names in declared order.
func (r *Roster) Names() []string {
	return r.names
}

// Len returns the number of authors on the roster.
func (r *Roster) Len() int {
	return len(r.names)
}

// Hours returns the accumulated total for an author and whether the
// author is on the roster.
func (r *Roster) Hours(name string) (float64, bool) {
	h, ok := r.hours[name]
	return h, ok
}

// Add accumulates hours for an author. It reports false, changing
// nothing, when the author is not on the roster.
func (r *Roster) Add(name string, hours float64) bool {
	if _, ok := r.hours[name]; !ok {
		return false
	}
	r.hours[name] += hours
	return true
}

// Total returns the sum of the per-author totals. Per-record values are
// rounded before accumulation, so this sums already-rounded quantities
// and is not rounded again.
func (r *Roster) Total() float64 {
	var total float64
	for _, name := range r.names {
		total += r.hours[name]
	}
	return total
}
