// Package dispatch turns a normalized alert into a routed notification:
// the on-duty shift's users get mentioned, or the default mention when no
// shift covers the alert's start time.
package dispatch

import (
	"context"
	"log"
	"strings"

	"github.com/function61/gokit/logex"
	"github.com/function61/gokit/stringutils"
	"github.com/slawekzachcial/hubot-alerts/pkg/alert"
	"github.com/slawekzachcial/hubot-alerts/pkg/shift"
)

const maxMessageLength = 4 * 1024

// Notifier delivers a rendered message to a room. Implementations own the
// transport; the dispatcher only produces content.
type Notifier interface {
	Notify(ctx context.Context, room string, message string) error
}

// Result is one routing decision.
type Result struct {
	Shift    *shift.Shift // nil when no shift covered the alert
	Mentions []string
	Message  string
}

type Dispatcher struct {
	registry       *shift.Registry
	notifier       Notifier
	room           string
	defaultMention string
	logl           *logex.Leveled
}

func New(
	registry *shift.Registry,
	notifier Notifier,
	room string,
	defaultMention string,
	logger *log.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry:       registry,
		notifier:       notifier,
		room:           room,
		defaultMention: defaultMention,
		logl:           logex.Levels(logger),
	}
}

// Route resolves who should be notified for the alert. Shift windows may
// overlap, so more than one can match; the first-configured match wins. An
// empty match set, or a matching shift with nobody assigned, falls back to
// the default mention.
func (d *Dispatcher) Route(a *alert.Alert) Result {
	result := Result{Mentions: []string{d.defaultMention}}

	matching := d.registry.FindMatching(a.StartsAt)
	if len(matching) > 0 {
		result.Shift = matching[0]

		if len(result.Shift.Users) > 0 {
			result.Mentions = result.Shift.Users
		}
	}

	result.Message = renderMessage(result.Mentions, a)

	return result
}

// Dispatch routes the alert and hands the rendered message to the notifier.
func (d *Dispatcher) Dispatch(ctx context.Context, a *alert.Alert) (Result, error) {
	result := d.Route(a)

	if err := d.notifier.Notify(ctx, d.room, result.Message); err != nil {
		return result, err
	}

	onDuty := "nobody on duty"
	if result.Shift != nil {
		onDuty = result.Shift.Name
	}

	d.logl.Info.Printf("%s alert routed to %s (%s)", a.Status, strings.Join(result.Mentions, " "), onDuty)

	return result, nil
}

func renderMessage(mentions []string, a *alert.Alert) string {
	body := a.String()
	if summary := a.Annotations["summary"]; summary != "" {
		body = summary + "\n" + body
	}

	return strings.Join(mentions, " ") + " " + stringutils.Truncate(body, maxMessageLength)
}
