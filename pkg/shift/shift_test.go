package shift

import (
	"testing"
	"time"

	"github.com/function61/gokit/assert"
)

// an arbitrary day - matching only looks at the UTC time-of-day fields
func atClock(hours int, minutes int) time.Time {
	return time.Date(2017, 9, 17, hours, minutes, 0, 0, time.UTC)
}

func mustNew(t *testing.T, name string, start string, end string) *Shift {
	s, err := New(name, start, end, nil)
	assert.Ok(t, err)
	return s
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	for _, value := range []string{"00:00", "08:00", "16:00", "23:59", "02:04"} {
		parsed, err := ParseTimeOfDay(value, "Shift start")
		assert.Ok(t, err)
		assert.EqualString(t, parsed.String(), value)
	}
}

func TestTimeOfDayMalformed(t *testing.T) {
	for _, value := range []string{"", "8:00", "08:0", "0800", "ab:cd", "24:00", "08:60", "-1:00", "08:00 "} {
		_, err := ParseTimeOfDay(value, "Shift start")
		assert.Assert(t, err != nil)
	}

	// the error names the field that failed and the expected format
	_, err := ParseTimeOfDay("24:00", "Shift end")
	assert.EqualString(t, err.Error(), "Shift end does not match format: 'hh:mm' (00 <= hh <= 23, 00 <= mm <= 59)")

	_, isValidation := err.(*ValidationError)
	assert.Assert(t, isValidation)
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "00:00", "08:00", nil)
	assert.EqualString(t, err.Error(), "Shift name cannot be empty")

	_, err = New("APJ", "25:00", "08:00", nil)
	assert.EqualString(t, err.Error(), "Shift start does not match format: 'hh:mm' (00 <= hh <= 23, 00 <= mm <= 59)")

	_, err = New("APJ", "00:00", "08:61", nil)
	assert.EqualString(t, err.Error(), "Shift end does not match format: 'hh:mm' (00 <= hh <= 23, 00 <= mm <= 59)")

	s, err := New("APJ", "00:00", "08:00", nil)
	assert.Ok(t, err)
	assert.Assert(t, s.Users != nil)
	assert.Assert(t, len(s.Users) == 0)
}

func TestMatchesNonWrapping(t *testing.T) {
	emea := mustNew(t, "EMEA", "08:00", "16:00")

	assert.Assert(t, emea.Matches(atClock(8, 0)))
	assert.Assert(t, emea.Matches(atClock(15, 59)))

	assert.Assert(t, !emea.Matches(atClock(7, 59)))
	assert.Assert(t, !emea.Matches(atClock(16, 0)))
}

func TestMatchesWrapping(t *testing.T) {
	night := mustNew(t, "night", "22:00", "03:00")

	assert.Assert(t, night.Matches(atClock(22, 0)))
	assert.Assert(t, night.Matches(atClock(23, 59)))
	assert.Assert(t, night.Matches(atClock(0, 0)))
	assert.Assert(t, night.Matches(atClock(2, 59)))

	assert.Assert(t, !night.Matches(atClock(3, 0)))
	assert.Assert(t, !night.Matches(atClock(21, 59)))
}

func TestMatchesBoundaryExactness(t *testing.T) {
	alertStart := time.Date(2017, 9, 17, 2, 4, 0, 0, time.UTC)

	assert.Assert(t, mustNew(t, "a", "02:04", "03:00").Matches(alertStart))
	assert.Assert(t, !mustNew(t, "b", "02:05", "03:00").Matches(alertStart))
}

func TestMatchesIgnoresNonUtcZone(t *testing.T) {
	emea := mustNew(t, "EMEA", "08:00", "16:00")

	// 10:00+02:00 is 08:00 UTC
	inOffsetZone := time.Date(2017, 9, 17, 10, 0, 0, 0, time.FixedZone("EET", 2*60*60))

	assert.Assert(t, emea.Matches(inOffsetZone))
}

func TestMatchesIdenticalBoundaries(t *testing.T) {
	// start == end is the non-wrapping branch, whose start-inclusive /
	// end-exclusive window is empty
	degenerate := mustNew(t, "x", "08:00", "08:00")

	assert.Assert(t, !degenerate.Matches(atClock(8, 0)))
	assert.Assert(t, !degenerate.Matches(atClock(12, 0)))
}

func TestString(t *testing.T) {
	apj := mustNew(t, "APJ", "00:00", "08:00")
	assert.EqualString(t, apj.String(), "APJ: 00:00-08:00 UTC => []")

	emea, err := New("EMEA", "08:00", "16:00", []string{"@alice", "@bob"})
	assert.Ok(t, err)
	assert.EqualString(t, emea.String(), "EMEA: 08:00-16:00 UTC => @alice,@bob")
}

func TestFromString(t *testing.T) {
	apj, err := FromString("APJ=00:00-08:00")
	assert.Ok(t, err)
	assert.EqualString(t, apj.Name, "APJ")
	assert.EqualString(t, apj.Start.String(), "00:00")
	assert.EqualString(t, apj.End.String(), "08:00")

	_, err = FromString("XX=:00-01")
	assert.EqualString(t, err.Error(), "shift format error: expected name=hh:mm-hh:mm but got: XX=:00-01")

	_, isFormat := err.(*FormatError)
	assert.Assert(t, isFormat)

	// matches the grammar but the time is out of range => constructor-level error
	_, err = FromString("XX=25:00-08:00")
	assert.EqualString(t, err.Error(), "Shift start does not match format: 'hh:mm' (00 <= hh <= 23, 00 <= mm <= 59)")
}

func TestParse(t *testing.T) {
	shifts, err := Parse("XX=00:00-01:00,YY=01:00-03:00,ZZ=03:00-00:00")
	assert.Ok(t, err)

	assert.Assert(t, len(shifts) == 3)
	assert.EqualString(t, shifts[0].Name, "XX")
	assert.EqualString(t, shifts[1].Name, "YY")
	assert.EqualString(t, shifts[2].Name, "ZZ")
	assert.EqualString(t, shifts[1].Start.String(), "01:00")
	assert.EqualString(t, shifts[2].End.String(), "00:00")
}

func TestParseAllOrNothing(t *testing.T) {
	shifts, err := Parse("XX=00:00-01:00,YY=bogus")
	assert.Assert(t, err != nil)
	assert.Assert(t, shifts == nil)
}
