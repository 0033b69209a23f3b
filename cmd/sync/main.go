package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"canvas-todoist-sync/internal/config"
	"canvas-todoist-sync/internal/controller"
	"canvas-todoist-sync/internal/credstore"
	"canvas-todoist-sync/internal/runlog"
	"canvas-todoist-sync/internal/selection"
)

func main() {
	var (
		timeout = flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	)
	flag.Parse()

	os.Exit(run(*timeout))
}

func run(timeout time.Duration) int {
	cfg := config.Load()

	store, err := credstore.Open(cfg.CredDBPath, credstore.ServiceName)
	if err != nil {
		log.Printf("open credential store: %v", err)
		return 1
	}
	defer store.Close()

	ctrl := controller.New(
		runlog.New(os.Stderr),
		config.Source{Store: store, Env: cfg},
		selection.NewStore(cfg.SelectionPath),
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	out := ctrl.Sync(ctx)
	log.Printf("Execution finished in %s", time.Since(start))

	switch out.Status {
	case controller.StatusOK:
		fmt.Printf("Sync complete: created %d tasks.\n", out.Synced)
		return 0
	case controller.StatusNothingToDo:
		fmt.Println("Sync complete: no new assignments found in selected courses.")
		return 0
	case controller.StatusPartial:
		fmt.Printf("Sync finished with errors: created %d tasks, %d failed.\n", out.Synced, out.Failed)
		return 2
	default:
		if out.Err != nil {
			fmt.Fprintf(os.Stderr, "sync failed: %v\n", out.Err)
		} else {
			fmt.Fprintf(os.Stderr, "sync failed: %d of %d tasks errored\n", out.Failed, out.Synced+out.Failed)
		}
		return 1
	}
}
