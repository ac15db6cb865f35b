package tzfield

// A grammar is a sequence of elements matched left to right with
// backtracking. Each element offers candidate end positions, most preferred
// first, which gives greedy quantifiers the same resolution order a regular
// expression engine would use.
type grammar []element

type element struct {
	// group is the capture slot filled by this element, or noGroup.
	group int
	// match returns the end positions this element can stop at when
	// started at pos, most preferred first.
	match func(s string, pos int) []int
	// optional elements may also be skipped entirely. A skipped element
	// leaves its capture unset.
	optional bool
}

const noGroup = -1

// capture is a matched group. ok is false if the group did not take part
// in the match.
type capture struct {
	text string
	ok   bool
}

// match reports whether g matches all of s and fills caps, which must have
// room for every group index used by g.
func (g grammar) match(s string, caps []capture) bool {
	return g.matchFrom(s, 0, 0, caps)
}

func (g grammar) matchFrom(s string, pos, i int, caps []capture) bool {
	if i == len(g) {
		return pos == len(s)
	}
	e := g[i]
	for _, end := range e.match(s, pos) {
		if e.group != noGroup {
			caps[e.group] = capture{text: s[pos:end], ok: true}
		}
		if g.matchFrom(s, end, i+1, caps) {
			return true
		}
	}
	if e.group != noGroup {
		caps[e.group] = capture{}
	}
	if e.optional {
		return g.matchFrom(s, pos, i+1, caps)
	}
	return false
}

// run matches between lo and hi characters satisfying class. A negative
// hi means unbounded. Longer runs are preferred.
func run(class func(byte) bool, lo, hi int) func(string, int) []int {
	return func(s string, pos int) []int {
		n := 0
		for pos+n < len(s) && (hi < 0 || n < hi) && class(s[pos+n]) {
			n++
		}
		var ends []int
		for ; n >= lo; n-- {
			ends = append(ends, pos+n)
		}
		return ends
	}
}

// seq matches each part in turn, for example hours, a colon and minutes.
// Candidate ends are ordered by the preference of the earlier parts first.
func seq(parts ...func(string, int) []int) func(string, int) []int {
	return func(s string, pos int) []int {
		ends := []int{pos}
		for _, part := range parts {
			var next []int
			for _, p := range ends {
				next = append(next, part(s, p)...)
			}
			ends = next
		}
		return ends
	}
}

// literal matches the single byte c.
func literal(c byte) func(string, int) []int {
	return run(func(b byte) bool { return b == c }, 1, 1)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// isNonWord matches the complement of [A-Za-z0-9_].
func isNonWord(c byte) bool {
	return !isDigit(c) && !isLetter(c) && c != '_'
}
