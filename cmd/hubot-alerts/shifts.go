package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/function61/gokit/logex"
	"github.com/scylladb/termtables"
	"github.com/slawekzachcial/hubot-alerts/pkg/shift"
	"github.com/spf13/cobra"
)

func shiftsEntry() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shifts",
		Short: "Manage on-support-duty shifts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List shifts along assigned users",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			exitIfError(shiftList(logex.StandardLogger()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "assign [shift] [user]...",
		Short: "Assign users to a shift, replacing previous assignees",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			exitIfError(shiftAssign(logex.StandardLogger(), args[0], args[1:]))
		},
	})

	return cmd
}

func shiftList(logger *log.Logger) error {
	registry, err := getRegistry(logger)
	if err != nil {
		return err
	}

	view := termtables.CreateTable()
	view.AddHeaders("Name", "Window (UTC)", "Users")

	for _, s := range registry.All() {
		users := "[]"
		if len(s.Users) > 0 {
			users = strings.Join(s.Users, ",")
		}

		view.AddRow(s.Name, s.Start.String()+"-"+s.End.String(), users)
	}

	fmt.Println(view.Render())

	return nil
}

func shiftAssign(logger *log.Logger, name string, users []string) error {
	registry, err := getRegistry(logger)
	if err != nil {
		return err
	}

	updated, err := registry.AssignUsers(name, users)
	if err != nil {
		if errors.Is(err, shift.ErrNotFound) {
			return fmt.Errorf("%s: %v", name, err)
		}
		return err
	}

	fmt.Println("Shift users recorded: " + updated.String())

	return nil
}
