package tzrecord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ngrash/tzfield/tzfield"
)

// ZoneFields holds the raw columns of a zone or zone continuation line:
//
//	Zone  NAME        STDOFF  RULES   FORMAT  [UNTIL]
//	Zone  Asia/Amman  2:00    Jordan  EE%sT   2017 Oct 27 01:00
//
// Continuation lines leave out "Zone" and the name.
type ZoneFields struct {
	Continuation bool
	Name         string `validate:"required_if=Continuation false,excludes=.."`
	StdOff       string `validate:"required"`
	Rules        string `validate:"required"`
	Format       string `validate:"required"`
	Until        string // may be empty
}

// Zone is a zone or zone continuation line.
type Zone struct {
	Continuation bool     // true if the line is a continuation line
	Name         string   // empty for continuation lines
	StdOff       int64    // standard offset, seconds east of UTC
	Rules        string   // rule set name, "-" or a SAVE amount
	Format       string   // abbreviation format, for example "CE%sT"
	HasUntil     bool     // false if the zone line is the last one of its zone
	Until        int64    // UTC instant at which the line stops applying
	UntilForm    TimeForm // clock the UNTIL time of day was written in
}

// NewZone validates the columns of a zone line and builds the Zone.
//
// The time of day in UNTIL may end in one of the AT suffixes w, s, u, g or z.
// Universal times (u, g, z) are parsed with a context offset of zero. Standard
// and wall clock times are parsed with STDOFF as the context offset; Until
// does not include the SAVE amount of the rules in effect for wall clock
// times, since resolving rules is left to the caller.
func NewZone(f ZoneFields) (Zone, error) {
	if err := validate.Struct(f); err != nil {
		return Zone{}, fmt.Errorf("invalid fields: %w", err)
	}
	var (
		z    = Zone{Continuation: f.Continuation, Name: f.Name, Rules: f.Rules, Format: unquote(f.Format)}
		errs error
		err  error
	)
	if z.StdOff, err = tzfield.ParseOffset(f.StdOff); err != nil {
		errs = errors.Join(errs, fmt.Errorf("STDOFF %q: %w", f.StdOff, err))
	}
	until, form := splitUntilForm(f.Until)
	z.UntilForm = form
	contextOffset := z.StdOff
	if form == UniversalTime {
		contextOffset = 0
	}
	if z.Until, z.HasUntil, err = tzfield.ParseTime(until, contextOffset); err != nil {
		errs = errors.Join(errs, fmt.Errorf("UNTIL %q: %w", f.Until, err))
	}
	return z, errs
}

// splitUntilForm removes an AT suffix from the time of day of an UNTIL
// column and returns the remaining text with the form it names. Columns
// without a time of day are returned unchanged as WallClock.
func splitUntilForm(s string) (string, TimeForm) {
	s = strings.TrimSpace(s)
	n := len(s)
	if n < 2 || !isDigit(s[n-2]) || !strings.Contains(s[strings.LastIndexAny(s, " \t")+1:], ":") {
		return s, WallClock
	}
	switch s[n-1] {
	case 'w':
		return s[:n-1], WallClock
	case 's':
		return s[:n-1], StandardTime
	case 'u', 'g', 'z':
		return s[:n-1], UniversalTime
	}
	return s, WallClock
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// OffsetString returns the standard offset formatted as ±HHMM[SS].
func (z Zone) OffsetString() string {
	return tzfield.FormatOffset(z.StdOff)
}

// zoneFields maps the fields of a zone line to their columns.
func zoneFields(fields []string) (ZoneFields, error) {
	if len(fields) < 5 {
		return ZoneFields{}, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}
	return ZoneFields{
		Name:   fields[1],
		StdOff: fields[2],
		Rules:  fields[3],
		Format: fields[4],
		Until:  strings.Join(fields[5:], " "),
	}, nil
}

// zoneContinuationFields maps the fields of a zone continuation line to their columns.
func zoneContinuationFields(fields []string) (ZoneFields, error) {
	if len(fields) < 3 {
		return ZoneFields{}, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	return ZoneFields{
		Continuation: true,
		StdOff:       fields[0],
		Rules:        fields[1],
		Format:       fields[2],
		Until:        strings.Join(fields[3:], " "),
	}, nil
}

// unquote removes surrounding double quotes from a column.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
