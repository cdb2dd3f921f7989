package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/function61/gokit/httputils"
	"github.com/function61/gokit/jsonfile"
	"github.com/function61/gokit/logex"
	"github.com/function61/gokit/ossignal"
	"github.com/function61/gokit/taskrunner"
	"github.com/slawekzachcial/hubot-alerts/pkg/alert"
	"github.com/slawekzachcial/hubot-alerts/pkg/shift"
	"github.com/spf13/cobra"
)

// Alertmanager group notification. Carries more fields (groupLabels,
// commonAnnotations, ...) which we do not need and therefore tolerate.
type webhookPayload struct {
	Version string        `json:"version"`
	Status  string        `json:"status"`
	Alerts  []alert.Input `json:"alerts"`
}

func newRestApi(app *app) http.Handler {
	mux := httputils.NewMethodMux()

	mux.GET.HandleFunc("/shifts", func(w http.ResponseWriter, r *http.Request) {
		noCacheHeaders(w)

		handleJsonOutput(w, app.registry.All())
	})

	mux.POST.HandleFunc("/shifts/assign", func(w http.ResponseWriter, r *http.Request) {
		assign := struct {
			Shift string   `json:"shift"`
			Users []string `json:"users"`
		}{}
		if err := jsonfile.Unmarshal(r.Body, &assign, true); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := app.registry.AssignUsers(assign.Shift, assign.Users)
		if err != nil {
			if errors.Is(err, shift.ErrNotFound) {
				http.Error(w, fmt.Sprintf("%s: %v", assign.Shift, err), http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		handleJsonOutput(w, updated)
	})

	// single-alert payload, maps 1:1 onto alert construction
	mux.POST.HandleFunc("/hubot/alerts", func(w http.ResponseWriter, r *http.Request) {
		input := alert.Input{}
		if err := jsonfile.Unmarshal(r.Body, &input, true); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		app.handleAlerts(w, r, []alert.Input{input})
	})

	// Alertmanager-compatible group payload; each alert is forwarded as its
	// own notification
	mux.POST.HandleFunc("/hubot/alerts/webhook", func(w http.ResponseWriter, r *http.Request) {
		payload := webhookPayload{}
		if err := jsonfile.Unmarshal(r.Body, &payload, false); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		for i := range payload.Alerts {
			if payload.Alerts[i].Status == "" {
				payload.Alerts[i].Status = payload.Status
			}
		}

		app.handleAlerts(w, r, payload.Alerts)
	})

	return mux
}

// handleAlerts normalizes every input before dispatching any of them, so a
// malformed alert in a batch fails the whole request with 400 and nothing
// half-sent.
func (a *app) handleAlerts(w http.ResponseWriter, r *http.Request, inputs []alert.Input) {
	now := time.Now()

	alerts := []*alert.Alert{}
	for _, input := range inputs {
		normalized, err := alert.NewAt(input, now, a.endTimeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		alerts = append(alerts, normalized)
	}

	results := []interface{}{}
	for _, normalized := range alerts {
		result, err := a.dispatcher.Dispatch(r.Context(), normalized)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		results = append(results, result)
	}

	handleJsonOutput(w, results)
}

func handleJsonOutput(w http.ResponseWriter, output interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(output); err != nil {
		panic(err)
	}
}

func noCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, must-revalidate")
}

func serverEntry() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the webhook REST API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := logex.StandardLogger()

			exitIfError(runServer(
				ossignal.InterruptOrTerminateBackgroundCtx(logger),
				logger))
		},
	}
}

func runServer(ctx context.Context, logger *log.Logger) error {
	app, err := getApp(logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: newRestApi(app),
	}

	tasks := taskrunner.New(ctx, logger)

	tasks.Start("listener "+srv.Addr, func(_ context.Context, _ string) error {
		return httputils.RemoveGracefulServerClosedError(srv.ListenAndServe())
	})

	tasks.Start("listenershutdowner", httputils.ServerShutdownTask(srv))

	return tasks.Wait()
}

func listenAddr() string {
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		return addr
	}

	return ":8080"
}
