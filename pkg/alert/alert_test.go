package alert

import (
	"testing"
	"time"

	"github.com/function61/gokit/assert"
)

var t0 = time.Date(2017, 9, 17, 2, 0, 0, 0, time.UTC)

func TestLabelsRequired(t *testing.T) {
	_, err := NewAt(Input{}, t0, DefaultEndTimeout)
	assert.Assert(t, err != nil)
	assert.EqualString(t, err.Error(), "non-empty mapping expected for Alert labels")

	_, err = NewAt(Input{Labels: map[string]string{}}, t0, DefaultEndTimeout)
	assert.Assert(t, err != nil)

	_, isValidation := err.(*ValidationError)
	assert.Assert(t, isValidation)
}

func TestDefaults(t *testing.T) {
	a, err := NewAt(Input{Labels: map[string]string{"severity": "page"}}, t0, DefaultEndTimeout)
	assert.Ok(t, err)

	assert.EqualString(t, a.Status, StatusFiring)
	assert.Assert(t, len(a.Annotations) == 0)
	assert.Assert(t, a.StartsAt.Equal(t0))
	assert.Assert(t, a.EndsAt.Sub(a.StartsAt) == 5*time.Minute)
	assert.EqualString(t, a.GeneratorURL, "")
}

func TestStatusNormalization(t *testing.T) {
	statusOf := func(status string) string {
		a, err := NewAt(Input{
			Status: status,
			Labels: map[string]string{"severity": "page"},
		}, t0, DefaultEndTimeout)
		assert.Ok(t, err)
		return a.Status
	}

	assert.EqualString(t, statusOf("resolved"), StatusResolved)
	assert.EqualString(t, statusOf("RESOLVED"), StatusResolved)
	assert.EqualString(t, statusOf("Resolved"), StatusResolved)
	assert.EqualString(t, statusOf("firing"), StatusFiring)
	assert.EqualString(t, statusOf(""), StatusFiring)
	assert.EqualString(t, statusOf("wat"), StatusFiring)
}

func TestTimestampParsing(t *testing.T) {
	a, err := NewAt(Input{
		Labels:   map[string]string{"component": "web"},
		StartsAt: "2017-09-17T06:30:00Z",
	}, t0, DefaultEndTimeout)
	assert.Ok(t, err)

	assert.EqualString(t, a.StartsAt.Format(time.RFC3339), "2017-09-17T06:30:00Z")
	// endsAt default chains off the resolved startsAt, not off now
	assert.EqualString(t, a.EndsAt.Format(time.RFC3339), "2017-09-17T06:35:00Z")

	// offsets are respected but the instant gets normalized to UTC
	a, err = NewAt(Input{
		Labels:   map[string]string{"component": "web"},
		StartsAt: "2017-09-17T08:30:00+02:00",
	}, t0, DefaultEndTimeout)
	assert.Ok(t, err)

	assert.EqualString(t, a.StartsAt.Format(time.RFC3339), "2017-09-17T06:30:00Z")
}

func TestUnparsableTimestampFallsBackToNow(t *testing.T) {
	a, err := NewAt(Input{
		Labels:   map[string]string{"component": "web"},
		StartsAt: "yesterday-ish",
	}, t0, DefaultEndTimeout)
	assert.Ok(t, err)

	assert.Assert(t, a.StartsAt.Equal(t0))
}

func TestExplicitEndsAt(t *testing.T) {
	a, err := NewAt(Input{
		Labels:   map[string]string{"component": "web"},
		StartsAt: "2017-09-17T02:00:00Z",
		EndsAt:   "2017-09-17T04:00:00Z",
	}, t0, DefaultEndTimeout)
	assert.Ok(t, err)

	assert.EqualString(t, a.EndsAt.Format(time.RFC3339), "2017-09-17T04:00:00Z")
}

func TestConfigurableEndTimeout(t *testing.T) {
	a, err := NewAt(Input{
		Labels: map[string]string{"component": "web"},
	}, t0, 30*time.Minute)
	assert.Ok(t, err)

	assert.Assert(t, a.EndsAt.Sub(a.StartsAt) == 30*time.Minute)
}

func TestString(t *testing.T) {
	a, err := NewAt(Input{
		Status:   "resolved",
		Labels:   map[string]string{"severity": "page"},
		StartsAt: "2017-09-17T02:00:00Z",
	}, t0, DefaultEndTimeout)
	assert.Ok(t, err)

	assert.EqualString(
		t,
		a.String(),
		`{"status":"resolved","labels":{"severity":"page"},"annotations":{},"startsAt":"2017-09-17T02:00:00Z","endsAt":"2017-09-17T02:05:00Z"}`)
}
