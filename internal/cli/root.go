// Package cli runs the upload, recent and detail behaviors from a terminal.
// Every page update is printed as it happens.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jo-hoe/imgup/internal/apiclient"
	"github.com/jo-hoe/imgup/internal/core"
	"github.com/jo-hoe/imgup/internal/ui"
	"github.com/jo-hoe/imgup/internal/view"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	DefaultPageURL = "http://localhost:8080/"

	configPathEnv = "CONFIG_PATH"
)

type options struct {
	apiEndpoint string
	pageURL     string
	configPath  string
}

// NewRootCommand builds the imgup command tree writing page updates to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "imgup",
		Short:         "Upload images and browse their captions and tags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.apiEndpoint, "api-endpoint", "", "base URL of the image API (overrides config and IMGUP_API_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&opts.pageURL, "page-url", DefaultPageURL, "page URL shareable links are built from")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (defaults to $CONFIG_PATH)")

	rootCmd.AddCommand(
		newUploadCommand(opts, out),
		newRecentCommand(opts, out),
		newDetailCommand(opts, out),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args and exits non-zero on failure.
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		slog.Error("imgup failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads --config, falling back to CONFIG_PATH, and lets
// --api-endpoint win over the file and IMGUP_API_ENDPOINT.
func (opts *options) loadConfig() (*core.ServiceConfig, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = os.Getenv(configPathEnv)
	}
	return core.LoadConfigWithEndpoint(configPath, opts.apiEndpoint)
}

// newSession creates the core service and a page that prints to out.
func (opts *options) newSession(out io.Writer, files []apiclient.File) (*core.CoreService, *ui.Recorder, error) {
	config, err := opts.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	coreService, err := core.NewCoreService(config)
	if err != nil {
		return nil, nil, err
	}

	page := ui.NewRecorder(opts.pageURL, files)
	page.OnMutation = printer(out)
	return coreService, page, nil
}

func printer(out io.Writer) func(ui.Mutation) {
	return func(m ui.Mutation) {
		switch m.Kind {
		case ui.MutationModal:
			fmt.Fprintf(out, "[%s]\n%s\n", m.Title, view.PlainText(m.Nodes...))
		case ui.MutationReplace:
			fmt.Fprintf(out, "%s\n", view.PlainText(m.Nodes...))
		}
	}
}
