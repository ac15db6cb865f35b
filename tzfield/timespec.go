package tzfield

import (
	"strconv"
	"strings"
	"time"

	"github.com/ngrash/tzfield/internal/unixtime"
)

// PartsMask records which components of a time spec were written in the
// source text. Components that were not written hold their defaults.
type PartsMask uint8

// Has returns true if all the parts in the mask are set.
func (p PartsMask) Has(parts PartsMask) bool {
	return p&parts == parts
}

const (
	PartYear PartsMask = 1 << iota
	PartMonth
	PartDay
	PartTime
	PartSeconds
)

// TimeSpec is a parsed time spec such as "2014 Jun 04 21:56:01".
// Fields are wall-clock values and are not range checked.
type TimeSpec struct {
	Parts  PartsMask
	Year   int
	Month  time.Month // January if PartMonth is not set
	Day    int        // 1 if PartDay is not set
	Hour   int        // 0 if PartTime is not set
	Minute int        // 0 if PartTime is not set
	Second int        // 0 if PartSeconds is not set
}

// Unix returns the UTC instant of the spec, read as local time in a zone
// that is contextOffset seconds east of UTC. Fields out of their usual
// range carry over into the next unit.
func (ts TimeSpec) Unix(contextOffset int64) int64 {
	local := unixtime.FromDateTime(ts.Year, int(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second)
	return local - contextOffset
}

// Capture slots of timeSpecGrammar.
const (
	tsYear = iota
	tsMonth
	tsDay
	tsClock
	tsSeconds
	tsGroups
)

// timeSpecGrammar accepts
//
//	YYYY [sep] [Mon] [sep...] [DD] [sep...] [H:MM] [:SS]
//
// where sep is any character outside [A-Za-z0-9_]. Every component after the
// year is optional. Separators are never required, so "2014Jun" is valid.
var timeSpecGrammar = grammar{
	{group: tsYear, match: run(isDigit, 4, 4)},
	{group: noGroup, match: run(isNonWord, 0, 1)},
	{group: tsMonth, match: run(isLetter, 3, 3), optional: true},
	{group: noGroup, match: run(isNonWord, 0, -1)},
	{group: tsDay, match: run(isDigit, 1, -1), optional: true},
	{group: noGroup, match: run(isNonWord, 0, -1)},
	{group: tsClock, match: seq(run(isDigit, 1, 2), literal(':'), run(isDigit, 1, 2)), optional: true},
	{group: tsSeconds, match: seq(literal(':'), run(isDigit, 1, -1)), optional: true},
}

// ParseTimeSpec parses a time spec of the form
//
//	2014 Jun 04 21:56:01
//
// Surrounding white space is ignored. Any trailing components may be left
// out; the month defaults to January, the day to 1 and the time of day to
// 00:00:00.
//
// A text that does not match returns an *Error of kind ErrMalformedTimeSpec
// carrying the trimmed text. A month token that is not in the month table
// returns an *Error of kind ErrUnknownMonth.
func ParseTimeSpec(s string) (TimeSpec, error) {
	text := strings.TrimSpace(s)
	caps := make([]capture, tsGroups)
	if !timeSpecGrammar.match(text, caps) {
		return TimeSpec{}, newError(ErrMalformedTimeSpec, text)
	}

	ts := TimeSpec{Parts: PartYear, Month: time.January, Day: 1}
	var err error
	if ts.Year, err = strconv.Atoi(caps[tsYear].text); err != nil {
		return TimeSpec{}, newError(ErrMalformedTimeSpec, text)
	}
	if c := caps[tsMonth]; c.ok {
		if ts.Month, err = ParseMonth(c.text); err != nil {
			return TimeSpec{}, err
		}
		ts.Parts |= PartMonth
	}
	if c := caps[tsDay]; c.ok {
		if ts.Day, err = strconv.Atoi(c.text); err != nil {
			return TimeSpec{}, newError(ErrMalformedTimeSpec, text)
		}
		ts.Parts |= PartDay
	}
	// An empty clock group counts as absent.
	if c := caps[tsClock]; c.ok && c.text != "" {
		hh, mm, _ := strings.Cut(c.text, ":")
		ts.Hour, _ = strconv.Atoi(hh)   // at most two digits
		ts.Minute, _ = strconv.Atoi(mm) // at most two digits
		ts.Parts |= PartTime
	}
	if c := caps[tsSeconds]; c.ok {
		if ts.Second, err = strconv.Atoi(strings.TrimPrefix(c.text, ":")); err != nil {
			return TimeSpec{}, newError(ErrMalformedTimeSpec, text)
		}
		ts.Parts |= PartSeconds
	}
	return ts, nil
}

// ParseTime parses a time spec and returns the UTC instant it denotes,
// treating the text as local time in a zone contextOffset seconds east of
// UTC. That is, the result is the spec's wall-clock instant minus
// contextOffset.
//
// An empty or blank text is not an error: ok is false, meaning no time was
// given. See ParseTimeSpec for the accepted format and the errors returned.
func ParseTime(s string, contextOffset int64) (unix int64, ok bool, err error) {
	if strings.TrimSpace(s) == "" {
		return 0, false, nil
	}
	ts, err := ParseTimeSpec(s)
	if err != nil {
		return 0, false, err
	}
	return ts.Unix(contextOffset), true, nil
}
