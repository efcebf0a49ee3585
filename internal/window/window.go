// Package window parses the report date range from its CLI arguments.
package window

import (
	"fmt"
	"regexp"
	"time"
)

// Field identifies which date argument a ParseError refers to.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

// String returns the flag name for the field.
func (f Field) String() string {
	if f == FieldStart {
		return "startdate"
	}
	return "enddate"
}

// Kind classifies a ParseError.
type Kind int

const (
	// InvalidFormat means the argument does not have YYYY-MM-DD shape.
	InvalidFormat Kind = iota
	// InvalidDate means the shape is right but the date does not exist
	// on the calendar.
	InvalidDate
)

// ParseError reports a rejected date argument.
type ParseError struct {
	Field Field
	Kind  Kind
	Value string
}

func (e *ParseError) Error() string {
	if e.Kind == InvalidFormat {
		return fmt.Sprintf("-%s argument %q must take YYYY-MM-DD format", e.Field, e.Value)
	}
	return fmt.Sprintf("-%s argument %q is not a valid date", e.Field, e.Value)
}

// DateWindow is an inclusive reporting range. Start sits at 00:00:01 and
// End at 23:59:59 of their respective days, so entries stamped exactly at
// midnight never straddle the boundary.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

const dayLayout = "2006-01-02"

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// New validates the two date arguments and builds the window. Both shape
// checks run before either calendar check, so a malformed start date is
// reported ahead of an impossible end date. Timestamps are naive local
// time; no zone conversion happens anywhere downstream.
func New(startStr, endStr string) (DateWindow, error) {
	if !dateShape.MatchString(startStr) {
		return DateWindow{}, &ParseError{Field: FieldStart, Kind: InvalidFormat, Value: startStr}
	}
	if !dateShape.MatchString(endStr) {
		return DateWindow{}, &ParseError{Field: FieldEnd, Kind: InvalidFormat, Value: endStr}
	}

	start, err := time.ParseInLocation(dayLayout, startStr, time.Local)
	if err != nil {
		return DateWindow{}, &ParseError{Field: FieldStart, Kind: InvalidDate, Value: startStr}
	}
	end, err := time.ParseInLocation(dayLayout, endStr, time.Local)
	if err != nil {
		return DateWindow{}, &ParseError{Field: FieldEnd, Kind: InvalidDate, Value: endStr}
	}

	return DateWindow{
		Start: start.Add(1 * time.Second),
		End:   end.Add(23*time.Hour + 59*time.Minute + 59*time.Second),
	}, nil
}

// Contains reports whether t falls strictly inside the window. Entries
// landing exactly on either bound are excluded.
func (w DateWindow) Contains(t time.Time) bool {
	return t.After(w.Start) && t.Before(w.End)
}

// StartDate returns the window's first day as YYYY-MM-DD.
func (w DateWindow) StartDate() string {
	return w.Start.Format(dayLayout)
}

// EndDate returns the window's last day as YYYY-MM-DD.
func (w DateWindow) EndDate() string {
	return w.End.Format(dayLayout)
}
