// Package tzrecord builds Zone, Rule and Link records from the lines of a
// tzdb source file, using package tzfield for the individual columns.
//
// Each record variant has a Fields struct holding the raw column text and a
// constructor (NewZone, NewRule, NewLink) that validates the columns and
// converts them into typed values. Parse and ParseAll read whole files.
package tzrecord

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// File holds the records of a tzdb source file in the order they appear.
type File struct {
	Zones []Zone
	Rules []Rule
	Links []Link
}

// LineError is an error that occurred while building the record on one line.
type LineError struct {
	Line int    // 1-based line number
	Text string // the line as read
	Err  error
}

// Error returns a string representation of the line error, implementing the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// use a single instance of Validate, it caches struct info
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("rulename", validateRuleName)
	return v
}

// validateRuleName checks a rule NAME column. The name must not start
// with a digit, "-" or "+", and an unquoted name must not contain any of
// !$%&'()*,/:;<=>?@[\]^`{|}~
func validateRuleName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	if c := s[0]; c >= '0' && c <= '9' || c == '-' || c == '+' {
		return false
	}
	if unquote(s) != s {
		return true
	}
	return !strings.ContainsAny(s, "!$%&'()*,/:;<=>?@[\\]^`{|}~")
}

// Parse reads a tzdb source file and returns its records.
// It stops at the first line that cannot be turned into a record and
// returns a *LineError for it.
func Parse(r io.Reader) (File, error) {
	var result File
	p := lineParser{file: &result}
	err := p.scan(r, func(*LineError) bool { return false })
	return result, err
}

// ParseAll reads a tzdb source file like Parse but does not stop at bad
// lines. It returns the records that could be built, every line error in
// order, and a non-nil error only if reading r failed.
func ParseAll(r io.Reader) (File, []*LineError, error) {
	var (
		result File
		errs   []*LineError
	)
	p := lineParser{file: &result}
	err := p.scan(r, func(lerr *LineError) bool {
		errs = append(errs, lerr)
		return true
	})
	return result, errs, err
}

type lineParser struct {
	file *File
	// continuationExpected is set after a zone line with an UNTIL column.
	continuationExpected bool
}

// scan feeds every line of r to the parser. onError decides whether
// scanning continues after a line error; if it does not, the error is
// returned.
func (p *lineParser) scan(r io.Reader, onError func(*LineError) bool) error {
	scanner := bufio.NewScanner(r)
	var lineNumber int
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if err := p.parseLine(line); err != nil {
			lerr := &LineError{Line: lineNumber, Text: line, Err: err}
			if !onError(lerr) {
				return lerr
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	return nil
}

func (p *lineParser) parseLine(line string) error {
	fields := SplitLine(line)
	if fields == nil {
		return nil // comment or empty line
	}

	if p.continuationExpected {
		zf, err := zoneContinuationFields(fields)
		if err != nil {
			p.continuationExpected = false
			return fmt.Errorf("parse zone continuation: %w", err)
		}
		p.continuationExpected = zf.Until != ""
		z, err := NewZone(zf)
		if err != nil {
			return fmt.Errorf("parse zone continuation: %w", err)
		}
		p.file.Zones = append(p.file.Zones, z)
		return nil
	}

	keyword := strings.ToLower(fields[0])
	switch {
	case isAbbrev(keyword, "zone", "z"):
		zf, err := zoneFields(fields)
		if err != nil {
			return fmt.Errorf("parse zone: %w", err)
		}
		p.continuationExpected = zf.Until != ""
		z, err := NewZone(zf)
		if err != nil {
			return fmt.Errorf("parse zone: %w", err)
		}
		p.file.Zones = append(p.file.Zones, z)
	case isAbbrev(keyword, "rule", "r"):
		rf, err := ruleFields(fields)
		if err != nil {
			return fmt.Errorf("parse rule: %w", err)
		}
		r, err := NewRule(rf)
		if err != nil {
			return fmt.Errorf("parse rule: %w", err)
		}
		p.file.Rules = append(p.file.Rules, r)
	case isAbbrev(keyword, "link", "l"):
		lf, err := linkFields(fields)
		if err != nil {
			return fmt.Errorf("parse link: %w", err)
		}
		l, err := NewLink(lf)
		if err != nil {
			return fmt.Errorf("parse link: %w", err)
		}
		p.file.Links = append(p.file.Links, l)
	default:
		return fmt.Errorf("unexpected line")
	}
	return nil
}

// SplitLine splits a source line into its fields.
// It returns nil if the line is a comment or empty.
//
// Fields are separated by one or more white space characters. A sharp
// character (#) introduces a comment which extends to the end of the line.
func SplitLine(line string) []string {
	if i := strings.Index(line, "#"); i != -1 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// isAbbrev reports whether s is a prefix of long that is at least as long as short.
func isAbbrev(s, long, short string) bool {
	return strings.HasPrefix(s, short) && strings.HasPrefix(long, s)
}
