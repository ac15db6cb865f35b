package tzrecord

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ngrash/tzfield/tzfield"
)

// RuleFields holds the raw columns of a rule line:
//
//	Rule  NAME  FROM  TO    -  IN   ON       AT     SAVE   LETTER/S
//	Rule  US    1967  1973  -  Apr  lastSun  2:00w  1:00d  D
type RuleFields struct {
	Name   string `validate:"required,rulename"`
	From   string `validate:"required"`
	To     string `validate:"required"`
	In     string `validate:"required"`
	On     string `validate:"required"`
	At     string `validate:"required"`
	Save   string `validate:"required"`
	Letter string `validate:"required"`
}

// Year is a FROM or TO year of a rule. The "minimum" and "maximum" keywords
// are stored as MinYear and MaxYear.
type Year int

// String prints MinYear and MaxYear as open ends of the year range.
func (y Year) String() string {
	switch y {
	case MinYear:
		return "<indefinite past>"
	case MaxYear:
		return "<indefinite future>"
	}
	return strconv.Itoa(int(y))
}

const (
	MinYear Year = math.MinInt // "minimum"
	MaxYear Year = math.MaxInt // "maximum"
)

// TimeForm is the clock a time of day or amount refers to, as selected by
// the suffix letter of an AT, SAVE or UNTIL column.
type TimeForm int

const (
	WallClock          TimeForm = iota // no suffix or "w"
	StandardTime                       // "s"
	DaylightSavingTime                 // "d", SAVE only
	UniversalTime                      // "u", "g" or "z"
)

func (f TimeForm) String() string {
	switch f {
	case WallClock:
		return "WallClock"
	case StandardTime:
		return "StandardTime"
	case DaylightSavingTime:
		return "DaylightSavingTime"
	case UniversalTime:
		return "UniversalTime"
	}
	return fmt.Sprintf("TimeForm(%d)", int(f))
}

// Rule is a rule line.
//
// IN and ON are kept as written; resolving day expressions such as
// "lastSun" or "Sun>=8" is left to the caller.
type Rule struct {
	Name     string
	From     Year
	To       Year
	In       string
	On       string
	At       int64 // seconds after 00:00
	AtForm   TimeForm
	Save     int64 // seconds added to standard time
	SaveForm TimeForm
	Letter   string // "" if the column is "-"
}

// NewRule validates the columns of a rule line and builds the Rule.
// The AT and SAVE amounts are parsed with tzfield.ParseOffset after their
// suffix letter is removed.
func NewRule(f RuleFields) (Rule, error) {
	if err := validate.Struct(f); err != nil {
		return Rule{}, fmt.Errorf("invalid fields: %w", err)
	}
	var (
		r    = Rule{Name: unquote(f.Name), In: f.In, On: f.On}
		errs error
		err  error
	)
	if r.From, err = parseFROM(f.From); err != nil {
		errs = errors.Join(errs, fmt.Errorf("FROM %q: %w", f.From, err))
	}
	if r.To, err = parseTO(f.To, r.From); err != nil {
		errs = errors.Join(errs, fmt.Errorf("TO %q: %w", f.To, err))
	}
	if r.At, r.AtForm, err = parseAT(f.At); err != nil {
		errs = errors.Join(errs, fmt.Errorf("AT %q: %w", f.At, err))
	}
	if r.Save, r.SaveForm, err = parseSAVE(f.Save); err != nil {
		errs = errors.Join(errs, fmt.Errorf("SAVE %q: %w", f.Save, err))
	}
	if r.Letter = unquote(f.Letter); r.Letter == "-" {
		r.Letter = ""
	}
	return r, errs
}

// ruleFields maps the fields of a rule line to their columns.
func ruleFields(fields []string) (RuleFields, error) {
	if len(fields) != 10 {
		return RuleFields{}, fmt.Errorf("expected 10 fields, got %d", len(fields))
	}
	return RuleFields{
		Name:   fields[1],
		From:   fields[2],
		To:     fields[3],
		In:     fields[5],
		On:     fields[6],
		At:     fields[7],
		Save:   fields[8],
		Letter: fields[9],
	}, nil
}

func parseFROM(s string) (Year, error) {
	l := strings.ToLower(s)
	if isAbbrev(l, "minimum", "mi") {
		return MinYear, nil
	}
	if isAbbrev(l, "maximum", "ma") {
		return MaxYear, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return Year(n), nil
}

// parseTO is parseFROM plus "only", which repeats the FROM year.
func parseTO(s string, from Year) (Year, error) {
	if isAbbrev(strings.ToLower(s), "only", "o") {
		return from, nil
	}
	return parseFROM(s)
}

func parseAT(s string) (int64, TimeForm, error) {
	d, suffix, err := parseAmountWithSuffix(s, "wsugz")
	if err != nil {
		return 0, 0, err
	}
	switch suffix {
	case 's':
		return d, StandardTime, nil
	case 'u', 'g', 'z':
		return d, UniversalTime, nil
	default:
		return d, WallClock, nil
	}
}

func parseSAVE(s string) (int64, TimeForm, error) {
	d, suffix, err := parseAmountWithSuffix(s, "sd")
	if err != nil {
		return 0, 0, err
	}
	switch suffix {
	case 's':
		return d, StandardTime, nil
	case 'd':
		return d, DaylightSavingTime, nil
	}
	// Without a suffix, zero is standard time and anything else is DST.
	if d == 0 {
		return d, StandardTime, nil
	}
	return d, DaylightSavingTime, nil
}

// parseAmountWithSuffix strips one of the suffix letters, if present, and
// parses the rest with tzfield.ParseOffset. The returned suffix is 0 if
// there was none.
func parseAmountWithSuffix(s, suffixes string) (int64, byte, error) {
	var suffix byte
	if n := len(s); n > 1 && strings.IndexByte(suffixes, s[n-1]) >= 0 {
		suffix = s[n-1]
		s = s[:n-1]
	}
	d, err := tzfield.ParseOffset(s)
	if err != nil {
		return 0, 0, err
	}
	return d, suffix, nil
}
