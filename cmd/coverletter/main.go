// Package main is the coverletter command line client. It keeps a local
// workspace directory and optionally syncs with the cover-letter API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"coverletter-backend/internal/apiclient"
	"coverletter-backend/internal/shared/storage/kv"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/workspace"
)

const sessionKey = "session"

var rootCmd = &cobra.Command{
	Use:           "coverletter",
	Short:         "Assemble cover letters from a reusable paragraph library",
	Long:          "coverletter keeps a profile, a library of response paragraphs and the letter being assembled in a local workspace directory.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	workspaceDir string
	apiURL       string
	apiToken     string
	apiTimeout   time.Duration
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "./.coverletter", "Workspace directory")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", os.Getenv("COVERLETTER_API"), "API base URL, e.g. http://localhost:8080/api/v1")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("COVERLETTER_TOKEN"), "Bearer token (defaults to the saved login)")
	rootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", apiclient.DefaultTimeout, "API request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write structured logs to stderr")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose {
			telemetry.SetOutput(cmd.ErrOrStderr())
		} else {
			telemetry.SetOutput(io.Discard)
		}
	}
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func openWorkspace(ctx context.Context) (*workspace.Store, kv.Store, error) {
	dir, err := kv.NewDirStore(workspaceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open workspace: %w", err)
	}
	ws, err := workspace.Open(ctx, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load workspace: %w", err)
	}
	return ws, dir, nil
}

// newClient returns nil when no API URL is configured.
func newClient(ctx context.Context, store kv.Store) (*apiclient.Client, error) {
	if strings.TrimSpace(apiURL) == "" {
		return nil, nil
	}
	client := apiclient.New(apiURL, apiTimeout)
	token := apiToken
	if token == "" {
		var s session
		if _, err := kv.GetJSON(ctx, store, sessionKey, &s); err != nil {
			return nil, err
		}
		token = s.Token
	}
	client.SetToken(token)
	return client, nil
}

func requireClient(ctx context.Context, store kv.Store) (*apiclient.Client, error) {
	client, err := newClient(ctx, store)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("--api or COVERLETTER_API is required")
	}
	return client, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// warnf reports a non-fatal condition, e.g. the backend being unreachable.
func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}
