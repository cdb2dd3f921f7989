package main

import (
	"fmt"
	"os"

	"github.com/function61/gokit/dynversion"
	"github.com/spf13/cobra"
)

func main() {
	app := &cobra.Command{
		Use:     os.Args[0],
		Short:   "On-support-duty shifts and alert routing",
		Version: dynversion.Version,
	}

	app.AddCommand(serverEntry())

	app.AddCommand(shiftsEntry())

	app.AddCommand(alertsEntry())

	app.AddCommand(&cobra.Command{
		Use:    "lambda",
		Hidden: true,
		Run: func(*cobra.Command, []string) {
			lambdaHandler()
		},
	})

	exitIfError(app.Execute())
}

func exitIfError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
