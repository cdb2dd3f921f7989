// Package shift models named daily UTC coverage windows with assigned
// on-duty users, and resolves which window an instant falls into.
package shift

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	hhmmRe  = regexp.MustCompile(`^(\d\d):(\d\d)$`)
	entryRe = regexp.MustCompile(`^(.*)=(\d\d:\d\d)-(\d\d:\d\d)$`)
)

// ValidationError reports a malformed shift field (empty name, out-of-range
// or malformed time of day).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// FormatError reports a configuration string segment that does not match the
// name=hh:mm-hh:mm grammar.
type FormatError struct {
	Segment string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("shift format error: expected name=hh:mm-hh:mm but got: %s", e.Segment)
}

// TimeOfDay is a wall-clock time in UTC. Zero value is midnight.
type TimeOfDay struct {
	Hours   int
	Minutes int
}

// ParseTimeOfDay parses a literal "hh:mm" string. what names the field being
// parsed ("Shift start", "Shift end") so errors identify it.
func ParseTimeOfDay(value string, what string) (TimeOfDay, error) {
	badFormat := func() error {
		return &ValidationError{fmt.Sprintf(
			"%s does not match format: 'hh:mm' (00 <= hh <= 23, 00 <= mm <= 59)",
			what)}
	}

	match := hhmmRe.FindStringSubmatch(value)
	if match == nil {
		return TimeOfDay{}, badFormat()
	}

	// the regexp guarantees two digits
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])

	if hours > 23 || minutes > 59 {
		return TimeOfDay{}, badFormat()
	}

	return TimeOfDay{Hours: hours, Minutes: minutes}, nil
}

// String renders back to the "hh:mm" form the value was parsed from.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

func (t TimeOfDay) minuteOfDay() int {
	return t.Hours*60 + t.Minutes
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	parsed, err := ParseTimeOfDay(value, "Time of day")
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

// Shift is one named coverage window. End may be numerically earlier than
// Start, meaning the window wraps past midnight (e.g. 22:00-03:00).
type Shift struct {
	Name  string    `json:"name"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Users []string  `json:"users"`
}

func New(name string, start string, end string, users []string) (*Shift, error) {
	if name == "" {
		return nil, &ValidationError{"Shift name cannot be empty"}
	}

	startParsed, err := ParseTimeOfDay(start, "Shift start")
	if err != nil {
		return nil, err
	}

	endParsed, err := ParseTimeOfDay(end, "Shift end")
	if err != nil {
		return nil, err
	}

	if users == nil {
		users = []string{}
	}

	return &Shift{
		Name:  name,
		Start: startParsed,
		End:   endParsed,
		Users: users,
	}, nil
}

// Matches reports whether the UTC calendar minute of at falls inside the
// window. Both window boundaries are start-inclusive, end-exclusive; this
// holds for both segments of a wraparound window.
func (s *Shift) Matches(at time.Time) bool {
	utc := at.UTC()
	alertMinute := utc.Hour()*60 + utc.Minute()

	startMinute := s.Start.minuteOfDay()
	endMinute := s.End.minuteOfDay()

	if startMinute <= endMinute {
		return startMinute <= alertMinute && alertMinute < endMinute
	}

	// window crosses midnight: late-night segment up to 24:00, or
	// early-morning segment from 00:00
	return alertMinute >= startMinute || alertMinute < endMinute
}

func (s *Shift) String() string {
	users := "[]"
	if len(s.Users) > 0 {
		users = strings.Join(s.Users, ",")
	}

	return fmt.Sprintf("%s: %s-%s UTC => %s", s.Name, s.Start, s.End, users)
}

// FromString parses one "name=hh:mm-hh:mm" configuration entry. A segment
// matching the grammar but carrying an out-of-range time (e.g. 25:00) fails
// with the constructor's ValidationError, not a FormatError.
func FromString(entry string) (*Shift, error) {
	match := entryRe.FindStringSubmatch(entry)
	if match == nil {
		return nil, &FormatError{Segment: entry}
	}

	return New(match[1], match[2], match[3], nil)
}

// Parse splits a comma-separated configuration string into shifts. It is
// all-or-nothing: a malformed segment anywhere fails the whole parse and
// nothing is returned, so callers never apply a partial configuration.
func Parse(config string) ([]*Shift, error) {
	shifts := []*Shift{}

	for _, entry := range strings.Split(config, ",") {
		parsed, err := FromString(entry)
		if err != nil {
			return nil, err
		}

		shifts = append(shifts, parsed)
	}

	return shifts, nil
}
