package tzrecord

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/tzfield/tzfield"
)

func unix(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
}

func TestParse_ExtendedExample(t *testing.T) {
	var input = strings.TrimSpace(`
# Rule  NAME  FROM  TO    -  IN   ON       AT    SAVE  LETTER/S
Rule    Swiss 1941  1942  -  May  Mon>=1   1:00  1:00  S
Rule    Swiss 1941  1942  -  Oct  Mon>=1   2:00  0     -
Rule    EU    1977  1980  -  Apr  Sun>=1   1:00u 1:00  S
Rule    EU    1977  only  -  Sep  lastSun  1:00u 0     -
Rule    EU    1981  max   -  Mar  lastSun  1:00u 1:00  S

# Zone  NAME           STDOFF      RULES  FORMAT  [UNTIL]
Zone    Europe/Zurich  0:34:08     -      LMT     1853 Jul 16
						0:29:46     -      BMT     1894 Jun
						1:00        Swiss  CE%sT   1981
						1:00        EU     CE%sT

Link    Europe/Zurich  Europe/Vaduz   # comment
`)

	got, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	want := File{
		Rules: []Rule{
			{Name: "Swiss", From: 1941, To: 1942, In: "May", On: "Mon>=1", At: 3600, AtForm: WallClock, Save: 3600, SaveForm: DaylightSavingTime, Letter: "S"},
			{Name: "Swiss", From: 1941, To: 1942, In: "Oct", On: "Mon>=1", At: 7200, AtForm: WallClock, Save: 0, SaveForm: StandardTime, Letter: ""},
			{Name: "EU", From: 1977, To: 1980, In: "Apr", On: "Sun>=1", At: 3600, AtForm: UniversalTime, Save: 3600, SaveForm: DaylightSavingTime, Letter: "S"},
			{Name: "EU", From: 1977, To: 1977, In: "Sep", On: "lastSun", At: 3600, AtForm: UniversalTime, Save: 0, SaveForm: StandardTime, Letter: ""},
			{Name: "EU", From: 1981, To: MaxYear, In: "Mar", On: "lastSun", At: 3600, AtForm: UniversalTime, Save: 3600, SaveForm: DaylightSavingTime, Letter: "S"},
		},
		Zones: []Zone{
			{Name: "Europe/Zurich", StdOff: 2048, Rules: "-", Format: "LMT", HasUntil: true, Until: unix(1853, time.July, 16) - 2048},
			{Continuation: true, StdOff: 1786, Rules: "-", Format: "BMT", HasUntil: true, Until: unix(1894, time.June, 1) - 1786},
			{Continuation: true, StdOff: 3600, Rules: "Swiss", Format: "CE%sT", HasUntil: true, Until: unix(1981, time.January, 1) - 3600},
			{Continuation: true, StdOff: 3600, Rules: "EU", Format: "CE%sT"},
		},
		Links: []Link{
			{Target: "Europe/Zurich", Name: "Europe/Vaduz"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_StopsAtFirstError(t *testing.T) {
	input := "Link A B\nZone X 1:00 - X 2014 Xyz\nLink C D\n"
	got, err := Parse(strings.NewReader(input))

	var lerr *LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 2, lerr.Line)
	assert.Equal(t, "Zone X 1:00 - X 2014 Xyz", lerr.Text)
	assert.ErrorIs(t, err, tzfield.ErrUnknownMonth)
	assert.Len(t, got.Links, 1)
}

func TestParseAll(t *testing.T) {
	var input = strings.TrimSpace(`
Zone    Europe/Zurich  0:34:08     -      LMT     1853 Jul 16
						0:29:45.50  -      BMT     1894 Jun
						1:00        EU     CE%sT   1981 Dec
						1:00        EU     CE%sT
Rule    EU    1981  max   -  Mar  lastSun  1:00u 1:00  S
Bogus line
Link    Europe/Zurich
`)

	got, lineErrs, err := ParseAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lineErrs, 4)

	assert.Equal(t, 2, lineErrs[0].Line)
	assert.ErrorIs(t, lineErrs[0], tzfield.ErrMalformedOffset)

	assert.Equal(t, 3, lineErrs[1].Line)
	assert.ErrorIs(t, lineErrs[1], tzfield.ErrUnknownMonth)

	assert.Equal(t, 6, lineErrs[2].Line)
	assert.Contains(t, lineErrs[2].Error(), "unexpected line")

	assert.Equal(t, 7, lineErrs[3].Line)
	assert.Contains(t, lineErrs[3].Error(), "expected 3 fields")

	// The line after a failed zone line with UNTIL is still a continuation.
	require.Len(t, got.Zones, 2)
	assert.False(t, got.Zones[0].Continuation)
	assert.True(t, got.Zones[1].Continuation)
	assert.False(t, got.Zones[1].HasUntil)
	assert.Len(t, got.Rules, 1)
	assert.Empty(t, got.Links)
}

func TestParse_Abbreviations(t *testing.T) {
	input := "Z Etc/UTC 0 - UTC\nR X 2000 o - Jan 1 0:00 0 -\nL Etc/UTC UTC\n"
	got, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, got.Zones, 1)
	assert.Len(t, got.Rules, 1)
	assert.Len(t, got.Links, 1)
	assert.Equal(t, Year(2000), got.Rules[0].To)
}

func TestSplitLine(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"# a comment", nil},
		{"Link A B", []string{"Link", "A", "B"}},
		{"  Link\tA  B   # trailing", []string{"Link", "A", "B"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SplitLine(c.line), "SplitLine(%q)", c.line)
	}
}

func TestNewZone(t *testing.T) {
	z, err := NewZone(ZoneFields{Name: "America/New_York", StdOff: "-5:00", Rules: "US", Format: "E%sT", Until: "1920"})
	require.NoError(t, err)
	assert.Equal(t, int64(-18000), z.StdOff)
	assert.True(t, z.HasUntil)
	assert.Equal(t, unix(1920, time.January, 1)+18000, z.Until)
	assert.Equal(t, "-0500", z.OffsetString())

	z, err = NewZone(ZoneFields{Name: "Europe/Zurich", StdOff: "0:34:08", Rules: "-", Format: `"LMT"`})
	require.NoError(t, err)
	assert.Equal(t, "+003408", z.OffsetString())
	assert.Equal(t, "LMT", z.Format)
	assert.False(t, z.HasUntil)
}

func TestParseAll_UntilSuffixes(t *testing.T) {
	const src = `Zone Europe/Lisbon 0:00 Port WE%sT 1992 Sep 27 1:00s
                   1:00 EU   CE%sT 1996 Mar 31 1:00u
                   0:00 EU   WE%sT
`
	f, errs, err := ParseAll(strings.NewReader(src))
	require.NoError(t, err)
	require.Empty(t, errs)

	want := []Zone{
		{Name: "Europe/Lisbon", StdOff: 0, Rules: "Port", Format: "WE%sT", HasUntil: true, Until: unix(1992, time.September, 27) + 3600, UntilForm: StandardTime},
		{Continuation: true, StdOff: 3600, Rules: "EU", Format: "CE%sT", HasUntil: true, Until: unix(1996, time.March, 31) + 3600, UntilForm: UniversalTime},
		{Continuation: true, StdOff: 0, Rules: "EU", Format: "WE%sT"},
	}
	if diff := cmp.Diff(f.Zones, want); diff != "" {
		t.Errorf("zones mismatch (-got +want):\n%s", diff)
	}
}

func TestNewZone_UntilForms(t *testing.T) {
	cases := []struct {
		until    string
		want     int64
		wantForm TimeForm
	}{
		{"1996 Mar 31 1:00", unix(1996, time.March, 31), WallClock},
		{"1996 Mar 31 1:00w", unix(1996, time.March, 31), WallClock},
		{"1996 Mar 31 1:00s", unix(1996, time.March, 31), StandardTime},
		{"1996 Mar 31 2:00u", unix(1996, time.March, 31) + 7200, UniversalTime},
		{"1996 Mar 31 2:00g", unix(1996, time.March, 31) + 7200, UniversalTime},
		{"1996 Mar 31 2:00z", unix(1996, time.March, 31) + 7200, UniversalTime},
		{"1996 Aug", unix(1996, time.August, 1) - 3600, WallClock},
	}
	for _, c := range cases {
		z, err := NewZone(ZoneFields{Name: "Europe/Paris", StdOff: "1:00", Rules: "EU", Format: "CE%sT", Until: c.until})
		if assert.NoError(t, err, "until %q", c.until) {
			assert.Equal(t, c.want, z.Until, "until %q", c.until)
			assert.Equal(t, c.wantForm, z.UntilForm, "until %q", c.until)
		}
	}

	_, err := NewZone(ZoneFields{Name: "Europe/Paris", StdOff: "1:00", Rules: "EU", Format: "CE%sT", Until: "1996 Mar 31 1:00x"})
	assert.ErrorIs(t, err, tzfield.ErrMalformedTimeSpec)
}

func TestNewZone_Errors(t *testing.T) {
	var verrs validator.ValidationErrors

	_, err := NewZone(ZoneFields{StdOff: "1:00", Rules: "-", Format: "CET"})
	assert.ErrorAs(t, err, &verrs, "missing name")

	_, err = NewZone(ZoneFields{Continuation: true, StdOff: "1:00", Rules: "-", Format: "CET"})
	assert.NoError(t, err, "continuation without name")

	_, err = NewZone(ZoneFields{Name: "../etc", StdOff: "1:00", Rules: "-", Format: "CET"})
	assert.ErrorAs(t, err, &verrs, "dot dot name")

	_, err = NewZone(ZoneFields{Name: "X", StdOff: "1h", Rules: "-", Format: "CET", Until: "soon"})
	assert.ErrorIs(t, err, tzfield.ErrMalformedOffset)
	assert.ErrorIs(t, err, tzfield.ErrMalformedTimeSpec)
}

func TestNewRule_Errors(t *testing.T) {
	valid := RuleFields{Name: "US", From: "1967", To: "1973", In: "Apr", On: "lastSun", At: "2:00w", Save: "1:00d", Letter: "D"}
	_, err := NewRule(valid)
	require.NoError(t, err)

	var verrs validator.ValidationErrors
	for _, name := range []string{"1US", "-US", "+US", "U/S", "U,S", "U|S"} {
		f := valid
		f.Name = name
		_, err := NewRule(f)
		assert.ErrorAs(t, err, &verrs, "name %q", name)
	}

	f := valid
	f.Name = `"U/S"`
	r, err := NewRule(f)
	require.NoError(t, err)
	assert.Equal(t, "U/S", r.Name)

	f = valid
	f.From, f.At, f.Save = "nineteen", "2", "1:00x"
	_, err = NewRule(f)
	assert.ErrorContains(t, err, "FROM")
	assert.ErrorContains(t, err, "AT")
	assert.ErrorContains(t, err, "SAVE")
	assert.ErrorIs(t, err, tzfield.ErrMalformedOffset)
}

func TestNewRule_Forms(t *testing.T) {
	cases := []struct {
		at, save         string
		wantAt, wantSave TimeForm
	}{
		{"2:00", "1:00", WallClock, DaylightSavingTime},
		{"2:00w", "0", WallClock, StandardTime},
		{"2:00s", "1:00s", StandardTime, StandardTime},
		{"1:00u", "0:30d", UniversalTime, DaylightSavingTime},
		{"1:00g", "-1:00", UniversalTime, DaylightSavingTime},
		{"1:00z", "0d", UniversalTime, DaylightSavingTime},
	}
	for _, c := range cases {
		r, err := NewRule(RuleFields{Name: "X", From: "min", To: "max", In: "Jan", On: "1", At: c.at, Save: c.save, Letter: "-"})
		require.NoError(t, err, "AT %q SAVE %q", c.at, c.save)
		assert.Equal(t, c.wantAt, r.AtForm, "AT %q", c.at)
		assert.Equal(t, c.wantSave, r.SaveForm, "SAVE %q", c.save)
		assert.Equal(t, Year(MinYear), r.From)
		assert.Equal(t, Year(MaxYear), r.To)
	}
}

func TestNewLink(t *testing.T) {
	l, err := NewLink(LinkFields{Target: "Europe/Zurich", Name: "Europe/Vaduz"})
	require.NoError(t, err)
	assert.Equal(t, Link{Target: "Europe/Zurich", Name: "Europe/Vaduz"}, l)

	var verrs validator.ValidationErrors
	_, err = NewLink(LinkFields{Target: "A", Name: "A"})
	assert.ErrorAs(t, err, &verrs)
	_, err = NewLink(LinkFields{Target: "A"})
	assert.ErrorAs(t, err, &verrs)
}

func TestLineError(t *testing.T) {
	err := &LineError{Line: 3, Text: "Link A", Err: errors.New("boom")}
	assert.Equal(t, `line 3: "Link A": boom`, err.Error())
}
