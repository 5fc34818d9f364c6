package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOptions carries the persistent flags shared by every command.
type rootOptions struct {
	verbose    bool
	configPath string
}

// Execute runs the kitforge CLI and returns an error if any command fails.
// This is the main entry point for the CLI application. The provided context
// is propagated to every command; cancelling it aborts in-flight work such as
// bulk exports or the HTTP server.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var opts rootOptions

	root := &cobra.Command{
		Use:          "kitforge",
		Short:        "KitForge designs and exports custom jersey graphics",
		Long:         `KitForge is the jersey design studio core: it maintains per-view canvas state, persists a roster-wide layout template, and produces print-ready raster exports, individually or in bulk.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("kitforge %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/kitforge/config.toml)")

	root.AddCommand(newExportCmd(&opts))
	root.AddCommand(newTemplateCmd(&opts))
	root.AddCommand(newRosterCmd())
	root.AddCommand(newServeCmd(&opts))
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
