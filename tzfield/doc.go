// Package tzfield parses the single-value fields of timezone rule source
// lines: time specs such as "2014 Jun 04 21:56:01", UTC offsets such as
// "-05:00:00" and month abbreviations. It also formats offsets as ±HHMM[SS].
//
// Time specs are local times. ParseTime takes the UTC offset in effect for
// the zone the text belongs to and subtracts it to obtain a UTC instant.
//
// All functions are pure and safe for concurrent use. Errors are returned as
// *Error values wrapping one of the Err* kinds; nothing is recovered
// internally, a malformed field is meant to abort processing of its record.
package tzfield
