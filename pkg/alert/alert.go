// Package alert normalizes Prometheus Alertmanager -style notification
// payloads into canonical records.
// Based on https://prometheus.io/docs/alerting/notifications/#alert
package alert

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	StatusFiring   = "firing"
	StatusResolved = "resolved"
)

// DefaultEndTimeout is added to startsAt to synthesize endsAt when the
// payload does not carry one.
const DefaultEndTimeout = 5 * time.Minute

// Input is the raw single-alert webhook payload. Everything but Labels is
// optional; timestamps are RFC 3339 strings.
type Input struct {
	Status       string            `json:"status"`
	Labels       map[string]string `json:"labels"`
	Annotations  map[string]string `json:"annotations"`
	StartsAt     string            `json:"startsAt"`
	EndsAt       string            `json:"endsAt"`
	GeneratorURL string            `json:"generatorURL"`
}

// Alert is the normalized record. Immutable after construction; lives only
// for the duration of one dispatch.
type Alert struct {
	Status       string            `json:"status"`
	Labels       map[string]string `json:"labels"`
	Annotations  map[string]string `json:"annotations"`
	StartsAt     time.Time         `json:"startsAt"`
	EndsAt       time.Time         `json:"endsAt"`
	GeneratorURL string            `json:"generatorURL,omitempty"`
}

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// New captures the wall clock once and normalizes with the default end
// timeout. Not deterministic when timestamps are absent - tests should use
// NewAt with a fixed now.
func New(in Input) (*Alert, error) {
	return NewAt(in, time.Now(), DefaultEndTimeout)
}

// NewAt validates and normalizes in. Labels must be a non-empty mapping -
// they are the only alert-identifying information. The original status
// string is not retained: anything that does not case-fold to "resolved"
// becomes "firing".
func NewAt(in Input, now time.Time, endTimeout time.Duration) (*Alert, error) {
	if len(in.Labels) == 0 {
		return nil, &ValidationError{"non-empty mapping expected for Alert labels"}
	}

	annotations := in.Annotations
	if annotations == nil {
		annotations = map[string]string{}
	}

	startsAt := parseTimeOr(in.StartsAt, now)
	endsAt := parseTimeOr(in.EndsAt, startsAt.Add(endTimeout))

	return &Alert{
		Status:       normalizeStatus(in.Status),
		Labels:       in.Labels,
		Annotations:  annotations,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		GeneratorURL: in.GeneratorURL,
	}, nil
}

func (a *Alert) Resolved() bool {
	return a.Status == StatusResolved
}

// String renders the alert as JSON for inclusion in notification text.
func (a *Alert) String() string {
	asJson, err := json.Marshal(a)
	if err != nil { // all fields are marshalable
		panic(err)
	}
	return string(asJson)
}

func normalizeStatus(status string) string {
	if strings.ToLower(status) == StatusResolved {
		return StatusResolved
	}
	return StatusFiring
}

// absent or unparsable timestamps fall back to the given default, keeping
// the instant exact (no local-timezone drift).
func parseTimeOr(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback.UTC()
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fallback.UTC()
	}

	return parsed.UTC()
}
