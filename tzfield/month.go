package tzfield

import "time"

// months maps the month abbreviations accepted in time specs.
//
// There is no entry for December; "Dec" is rejected like any other
// unknown token.
var months = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
}

// ParseMonth returns the month for a three-letter abbreviation such as "Jun".
// Matching is exact and case-sensitive. Unknown tokens, "Dec" included,
// return an *Error of kind ErrUnknownMonth.
func ParseMonth(s string) (time.Month, error) {
	if m, ok := months[s]; ok {
		return m, nil
	}
	return 0, newError(ErrUnknownMonth, s)
}
