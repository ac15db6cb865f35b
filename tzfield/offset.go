package tzfield

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Capture slots of offsetGrammar.
const (
	offSign = iota
	offHours
	offMinutes
	offSeconds
	offGroups
)

// offsetGrammar accepts [-]H:MM[:SS] with one or two hour digits.
var offsetGrammar = grammar{
	{group: offSign, match: literal('-'), optional: true},
	{group: offHours, match: run(isDigit, 1, 2)},
	{group: noGroup, match: literal(':')},
	{group: offMinutes, match: run(isDigit, 2, 2)},
	{group: offSeconds, match: seq(literal(':'), run(isDigit, 2, 2)), optional: true},
}

// ParseOffset parses a UTC offset such as "-05:00:00" or "3:00" and returns
// it in seconds east of UTC. The seconds part is optional, and "0" is
// accepted as a shorthand for no offset. There is no "+" sign; an offset
// without a leading "-" is positive.
//
// A text that does not match returns an *Error of kind ErrMalformedOffset.
func ParseOffset(s string) (int64, error) {
	if s == "0" {
		return 0, nil
	}
	caps := make([]capture, offGroups)
	if !offsetGrammar.match(s, caps) {
		return 0, newError(ErrMalformedOffset, s)
	}

	// All groups are short digit runs, so Atoi cannot fail.
	hours, _ := strconv.Atoi(caps[offHours].text)
	minutes, _ := strconv.Atoi(caps[offMinutes].text)
	var seconds int
	if c := caps[offSeconds]; c.ok {
		seconds, _ = strconv.Atoi(strings.TrimPrefix(c.text, ":"))
	}

	off := int64(seconds + minutes*60 + hours*3600)
	if caps[offSign].ok {
		off = -off
	}
	return off, nil
}

// FormatOffset formats an offset in seconds east of UTC as ±HHMM, or
// ±HHMMSS if the offset has a seconds part. For example:
//
//	+0100
//	-0500
//	+002705
//
// Zero is formatted as "+0000". ParseFormattedOffset reverses it.
func FormatOffset(seconds int64) string {
	sign := '+'
	abs := uint64(seconds)
	if seconds < 0 {
		sign = '-'
		abs = uint64(-seconds) // also correct for math.MinInt64
	}

	hh := abs / 3600
	mm := (abs / 60) % 60
	ss := abs % 60

	s := fmt.Sprintf("%c%02d%02d", sign, hh, mm)
	if ss > 0 {
		s += fmt.Sprintf("%02d", ss)
	}
	return s
}

// Capture slots of formattedOffsetGrammar.
const (
	fmtSign = iota
	fmtHours
	fmtMinutes
	fmtSeconds
	fmtGroups
)

// formattedOffsetGrammar accepts the output of FormatOffset: ±HHMM[SS].
var formattedOffsetGrammar = grammar{
	{group: fmtSign, match: run(func(c byte) bool { return c == '+' || c == '-' }, 1, 1)},
	{group: fmtHours, match: run(isDigit, 2, 2)},
	{group: fmtMinutes, match: run(isDigit, 2, 2)},
	{group: fmtSeconds, match: run(isDigit, 2, 2), optional: true},
}

// ParseFormattedOffset parses an offset in the form produced by
// FormatOffset, such as "+0100" or "-002705", and returns it in seconds
// east of UTC. Hours are limited to two digits.
//
// A text that does not match returns an *Error of kind ErrMalformedOffset.
func ParseFormattedOffset(s string) (int64, error) {
	caps := make([]capture, fmtGroups)
	if !formattedOffsetGrammar.match(s, caps) {
		return 0, newError(ErrMalformedOffset, s)
	}
	hours, _ := strconv.Atoi(caps[fmtHours].text)
	minutes, _ := strconv.Atoi(caps[fmtMinutes].text)
	var seconds int
	if c := caps[fmtSeconds]; c.ok {
		seconds, _ = strconv.Atoi(c.text)
	}
	off := int64(seconds + minutes*60 + hours*3600)
	if caps[fmtSign].text == "-" {
		off = -off
	}
	return off, nil
}

// FormatOffsetValue is like FormatOffset but accepts an offset of any
// dynamic type, for callers that take offsets from untyped data. Integer
// values of any width are accepted, as is a time.Duration holding a whole
// number of seconds. Everything else, including floating-point values,
// returns an *Error of kind ErrInvalidOffsetType.
func FormatOffsetValue(v any) (string, error) {
	seconds, ok := offsetSeconds(v)
	if !ok {
		return "", newError(ErrInvalidOffsetType, fmt.Sprintf("%v (%T)", v, v))
	}
	return FormatOffset(seconds), nil
}

func offsetSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return unsignedSeconds(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return unsignedSeconds(n)
	case time.Duration:
		if n%time.Second != 0 {
			return 0, false
		}
		return int64(n / time.Second), true
	default:
		return 0, false
	}
}

func unsignedSeconds(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}
