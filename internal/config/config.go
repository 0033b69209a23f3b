package config

import (
	"os"
	"strconv"

	"canvas-todoist-sync/internal/domain"
	"canvas-todoist-sync/internal/sftpclient"
)

// Config is the environment-sourced side of configuration: file locations,
// credential overrides for headless/CI use, and the report drop target.
// Secrets normally live in the credential store; env wins when set.
type Config struct {
	// Canvas / Todoist overrides
	CanvasBaseURL string
	CanvasAPIKey  string
	TodoistAPIKey string

	// file locations
	SelectionPath string
	CredDBPath    string

	// report drop (cmd/export)
	SFTPHost      string
	SFTPPort      int
	SFTPUser      string
	SFTPPass      string
	SFTPRemoteDir string
}

func Load() Config {
	return Config{
		CanvasBaseURL: os.Getenv("CANVAS_BASE_URL"),
		CanvasAPIKey:  os.Getenv("CANVAS_API_KEY"),
		TodoistAPIKey: os.Getenv("TODOIST_API_KEY"),

		SelectionPath: getenv("SYNC_SELECTION_FILE", "config.json"),
		CredDBPath:    getenv("SYNC_CRED_DB", "credentials.db"),

		SFTPHost:      os.Getenv("SFTP_HOST"),
		SFTPPort:      getenvInt("SFTP_PORT", 22),
		SFTPUser:      os.Getenv("SFTP_USER"),
		SFTPPass:      os.Getenv("SFTP_PASS"),
		SFTPRemoteDir: getenv("SFTP_REMOTE_DIR", "/"),
	}
}

// SFTP assembles the upload config for the report drop.
func (c Config) SFTP() sftpclient.Config {
	return sftpclient.Config{
		Host:      c.SFTPHost,
		Port:      c.SFTPPort,
		User:      c.SFTPUser,
		Pass:      c.SFTPPass,
		RemoteDir: c.SFTPRemoteDir,
	}
}

// Apply layers the env overrides over stored credentials.
func (c Config) Apply(creds domain.Credentials) domain.Credentials {
	if c.CanvasBaseURL != "" {
		creds.CanvasBaseURL = c.CanvasBaseURL
	}
	if c.CanvasAPIKey != "" {
		creds.CanvasAPIKey = c.CanvasAPIKey
	}
	if c.TodoistAPIKey != "" {
		creds.TodoistAPIKey = c.TodoistAPIKey
	}
	return creds
}

// Source layers env overrides over a credential store for the controller.
type Source struct {
	Store interface {
		Credentials() (domain.Credentials, error)
	}
	Env Config
}

func (s Source) Credentials() (domain.Credentials, error) {
	var creds domain.Credentials
	if s.Store != nil {
		var err error
		creds, err = s.Store.Credentials()
		if err != nil {
			return domain.Credentials{}, err
		}
	}
	return s.Env.Apply(creds), nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
