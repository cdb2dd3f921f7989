package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/function61/gokit/logex"
	"github.com/scylladb/termtables"
	"github.com/slawekzachcial/hubot-alerts/pkg/alert"
	"github.com/slawekzachcial/hubot-alerts/pkg/dispatch"
	"github.com/spf13/cobra"
)

func alertsEntry() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Alert routing tools",
	}

	at := ""

	route := &cobra.Command{
		Use:   "route [labelKey=labelValue]...",
		Short: "Show who would be notified for an alert (nothing is sent)",
		Run: func(cmd *cobra.Command, args []string) {
			exitIfError(alertRoute(logex.StandardLogger(), at, args))
		},
	}

	route.Flags().StringVarP(&at, "at", "t", at, "Alert start time, RFC 3339 (default: now)")

	cmd.AddCommand(route)

	return cmd
}

func alertRoute(logger *log.Logger, at string, labelArgs []string) error {
	registry, err := getRegistry(logger)
	if err != nil {
		return err
	}

	// construction silently defaults an unparsable startsAt to now, which
	// would make a typoed --at misleading here
	if at != "" {
		if _, err := time.Parse(time.RFC3339, at); err != nil {
			return fmt.Errorf("invalid --at: %v", err)
		}
	}

	labels := map[string]string{}
	for _, arg := range labelArgs {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("label argument not key=value: %s", arg)
		}

		labels[parts[0]] = parts[1]
	}
	if len(labels) == 0 {
		labels["alertname"] = "RoutingProbe"
	}

	endTimeout, err := endTimeoutFromEnv()
	if err != nil {
		return err
	}

	probe, err := alert.NewAt(alert.Input{Labels: labels, StartsAt: at}, time.Now(), endTimeout)
	if err != nil {
		return err
	}

	// notifier not needed - Route only decides, Dispatch sends
	dispatcher := dispatch.New(registry, nil, "", defaultMention(), logger)
	result := dispatcher.Route(probe)

	shiftName := "(no shift on duty)"
	if result.Shift != nil {
		shiftName = result.Shift.String()
	}

	view := termtables.CreateTable()
	view.AddHeaders("At (UTC)", "Shift", "Mentions")
	view.AddRow(
		probe.StartsAt.Format("15:04"),
		shiftName,
		strings.Join(result.Mentions, " "))

	fmt.Println(view.Render())

	return nil
}
