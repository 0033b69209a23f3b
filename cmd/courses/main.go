package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"canvas-todoist-sync/internal/config"
	"canvas-todoist-sync/internal/controller"
	"canvas-todoist-sync/internal/credstore"
	"canvas-todoist-sync/internal/runlog"
	"canvas-todoist-sync/internal/selection"
)

func main() {
	var (
		sel   = flag.String("select", "", "comma-separated course IDs to save as the sync selection")
		quiet = flag.Bool("quiet", false, "suppress the engine log stream")
	)
	flag.Parse()

	cfg := config.Load()

	store, err := credstore.Open(cfg.CredDBPath, credstore.ServiceName)
	if err != nil {
		log.Fatalf("open credential store: %v", err)
	}
	defer store.Close()

	logOut := os.Stderr
	if *quiet {
		f, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		logOut = f
	}

	selStore := selection.NewStore(cfg.SelectionPath)
	ctrl := controller.New(runlog.New(logOut), config.Source{Store: store, Env: cfg}, selStore)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	out := ctrl.FetchCourses(ctx)
	if out.Status != controller.StatusOK {
		log.Fatalf("course fetch failed: %v", out.Err)
	}

	selected, err := selStore.Load()
	if err != nil {
		log.Printf("load selection: %v", err)
	}
	selectedSet := map[string]bool{}
	for _, id := range selected {
		selectedSet[id] = true
	}

	for _, c := range out.Courses {
		mark := " "
		if selectedSet[c.ID] {
			mark = "x"
		}
		fmt.Printf("[%s] %-10s %s\n", mark, c.ID, c.Label())
	}

	if *sel != "" {
		ids := strings.Split(*sel, ",")
		for i := range ids {
			ids[i] = strings.TrimSpace(ids[i])
		}
		if err := selStore.Save(ids); err != nil {
			log.Fatalf("save selection: %v", err)
		}
		fmt.Printf("Saved course selection to %s.\n", selStore.Path)
	}
}
