package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"canvas-todoist-sync/internal/canvas"
	"canvas-todoist-sync/internal/collector"
	"canvas-todoist-sync/internal/config"
	"canvas-todoist-sync/internal/credstore"
	"canvas-todoist-sync/internal/export"
	"canvas-todoist-sync/internal/runlog"
	"canvas-todoist-sync/internal/selection"
	"canvas-todoist-sync/internal/sftpclient"
)

// Exports the currently pending assignments for the saved selection as a
// CSV report, optionally pushing it to the SFTP drop.
func main() {
	var (
		out    = flag.String("out", "", "output file (default assignments-<date>-<id>.csv)")
		upload = flag.Bool("upload", false, "upload the report via SFTP (SFTP_* env)")
	)
	flag.Parse()

	if err := run(*out, *upload); err != nil {
		log.Fatalf("export failed: %v", err)
	}
}

func run(outPath string, upload bool) error {
	cfg := config.Load()

	store, err := credstore.Open(cfg.CredDBPath, credstore.ServiceName)
	if err != nil {
		return err
	}
	defer store.Close()

	creds, err := config.Source{Store: store, Env: cfg}.Credentials()
	if err != nil {
		return err
	}

	ids, err := selection.NewStore(cfg.SelectionPath).Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	logger := runlog.New(os.Stderr)
	cv := canvas.New(creds.CanvasBaseURL, creds.CanvasAPIKey)
	assignments, err := collector.New(cv, logger).Collect(ctx, ids)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = fmt.Sprintf("assignments-%s-%s.csv",
			time.Now().Format("20060102"), uuid.NewString()[:8])
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := export.WriteAssignmentsCSV(f, assignments); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d assignments to %s\n", len(assignments), outPath)

	if upload {
		if err := sftpclient.UploadFile(ctx, cfg.SFTP(), outPath, outPath); err != nil {
			return err
		}
		fmt.Printf("Uploaded %s to %s\n", outPath, cfg.SFTPHost)
	}
	return nil
}
