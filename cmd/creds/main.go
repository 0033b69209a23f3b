package main

import (
	"flag"
	"fmt"
	"log"

	"canvas-todoist-sync/internal/config"
	"canvas-todoist-sync/internal/credstore"
)

// Manages the three stored secrets: Canvas base URL, Canvas API key,
// Todoist API key. With no flags it prints which ones are present.
func main() {
	var (
		canvasURL  = flag.String("canvas-url", "", "set the Canvas base URL")
		canvasKey  = flag.String("canvas-key", "", "set the Canvas API key")
		todoistKey = flag.String("todoist-key", "", "set the Todoist API key")
		clear      = flag.Bool("clear", false, "delete all stored credentials")
	)
	flag.Parse()

	cfg := config.Load()
	store, err := credstore.Open(cfg.CredDBPath, credstore.ServiceName)
	if err != nil {
		log.Fatalf("open credential store: %v", err)
	}
	defer store.Close()

	if *clear {
		if err := store.Clear(); err != nil {
			log.Fatalf("clear credentials: %v", err)
		}
		fmt.Println("Cleared local credentials.")
		return
	}

	set := func(key, value, label string) {
		if value == "" {
			return
		}
		if err := store.Set(key, value); err != nil {
			log.Fatalf("save %s: %v", label, err)
		}
		fmt.Printf("Saved %s.\n", label)
	}
	set(credstore.KeyCanvasURL, *canvasURL, "Canvas URL")
	set(credstore.KeyCanvasKey, *canvasKey, "Canvas API key")
	set(credstore.KeyTodoistKey, *todoistKey, "Todoist API key")

	creds, err := store.Credentials()
	if err != nil {
		log.Fatalf("read credentials: %v", err)
	}

	status := func(present bool) string {
		if present {
			return "set"
		}
		return "missing"
	}
	fmt.Printf("Canvas URL:      %s\n", status(creds.CanvasBaseURL != ""))
	fmt.Printf("Canvas API key:  %s\n", status(creds.CanvasAPIKey != ""))
	fmt.Printf("Todoist API key: %s\n", status(creds.TodoistAPIKey != ""))
}
