// Package unixtime converts calendar fields to Unix timestamps without
// going through time.Location.
package unixtime

// FromDateTime converts a given date and time to a Unix timestamp, i.e. the number of seconds since 1970-01-01 00:00:00 UTC.
// It ignores leap seconds but respects leap years. It assumes the proleptic Gregorian calendar.
//
// Fields are not validated. Values outside their usual range carry into the
// next larger unit, so month 13 is January of the following year and
// February 31 is early March. Depending on time.Location feels wrong for a
// low-level utility used to build the data that time.Location is made of.
func FromDateTime(year, month, day, hour, minute, second int) int64 {
	y, m := normalizeMonth(year, month)

	d := daysBeforeYear(y) + daysBeforeMonth[m-1] + int64(day-1)
	if m > 2 && isLeapYear(y) {
		d++ // +leap day
	}
	return d*secondsPerDay +
		int64(hour)*secondsPerHour +
		int64(minute)*secondsPerMinute +
		int64(second)
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	// unixEpochDays is the number of days from 0001-01-01 to 1970-01-01.
	unixEpochDays = 1969*365 + 1969/4 - 1969/100 + 1969/400
)

// daysBeforeMonth[m] counts the days in a non-leap year before month m+1.
var daysBeforeMonth = [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// normalizeMonth folds month into 1..12, moving whole years into year.
func normalizeMonth(year, month int) (int, int) {
	m := month - 1
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	return year, m + 1
}

// daysBeforeYear returns the number of days from 1970-01-01 to January 1st
// of the given year. Year 0 precedes year 1.
func daysBeforeYear(year int) int64 {
	y := int64(year) - 1
	return 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - unixEpochDays
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
