package main

// Everything is configured the hubot way, through environment variables:
//
//   HUBOT_SHIFTS       "APJ=00:00-08:00,EMEA=08:00-16:00,..." (default: built-in rotation)
//   BRAIN_PATH         JSON file for persistent state (default: in-memory only)
//   HUBOT_ALERTS_ROOM  room notifications are delivered to
//   NOTIFY_WEBHOOK_URL chat webhook endpoint (required unless ALERT_TOPIC set)
//   ALERT_TOPIC        SNS topic ARN; takes precedence over the webhook
//   DEFAULT_MENTION    mention used when nobody is on duty (default: @all)
//   ALERT_END_TIMEOUT  endsAt default offset, Go duration (default: 5m)

import (
	"log"
	"os"
	"time"

	"github.com/function61/gokit/envvar"
	"github.com/function61/gokit/logex"
	"github.com/slawekzachcial/hubot-alerts/pkg/alert"
	"github.com/slawekzachcial/hubot-alerts/pkg/brain"
	"github.com/slawekzachcial/hubot-alerts/pkg/dispatch"
	"github.com/slawekzachcial/hubot-alerts/pkg/shift"
)

type app struct {
	registry   *shift.Registry
	dispatcher *dispatch.Dispatcher
	endTimeout time.Duration
	logger     *log.Logger
}

// getRegistry loads the registry from the brain. Configuration is applied
// only when the brain held nothing, so user assignments survive restarts.
func getRegistry(logger *log.Logger) (*shift.Registry, error) {
	theBrain, err := brain.New(os.Getenv("BRAIN_PATH"), logex.Prefix("brain", logger))
	if err != nil {
		return nil, err
	}

	registry, err := shift.NewRegistry(theBrain)
	if err != nil {
		return nil, err
	}

	if len(registry.All()) > 0 {
		return registry, nil
	}

	if shiftsConfig := os.Getenv("HUBOT_SHIFTS"); shiftsConfig != "" {
		if _, err := registry.Configure(shiftsConfig); err != nil {
			return nil, err
		}
	} else if err := registry.StoreAll(shift.DefaultShifts()); err != nil {
		return nil, err
	}

	return registry, nil
}

// getApp wires the full notification pipeline (registry -> dispatcher ->
// notifier), used by the server and Lambda entrypoints.
func getApp(logger *log.Logger) (*app, error) {
	registry, err := getRegistry(logger)
	if err != nil {
		return nil, err
	}

	notifier, err := notifierFromEnv()
	if err != nil {
		return nil, err
	}

	endTimeout, err := endTimeoutFromEnv()
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.New(
		registry,
		notifier,
		os.Getenv("HUBOT_ALERTS_ROOM"),
		defaultMention(),
		logex.Prefix("dispatch", logger))

	return &app{
		registry:   registry,
		dispatcher: dispatcher,
		endTimeout: endTimeout,
		logger:     logger,
	}, nil
}

func notifierFromEnv() (dispatch.Notifier, error) {
	if topic := os.Getenv("ALERT_TOPIC"); topic != "" {
		return dispatch.NewSnsNotifier(topic)
	}

	webhookUrl, err := envvar.Required("NOTIFY_WEBHOOK_URL")
	if err != nil {
		return nil, err
	}

	return dispatch.NewWebhookNotifier(webhookUrl), nil
}

func defaultMention() string {
	if mention := os.Getenv("DEFAULT_MENTION"); mention != "" {
		return mention
	}

	return "@all"
}

func endTimeoutFromEnv() (time.Duration, error) {
	spec := os.Getenv("ALERT_END_TIMEOUT")
	if spec == "" {
		return alert.DefaultEndTimeout, nil
	}

	return time.ParseDuration(spec)
}
