// Package cli implements the tablemap command-line interface.
//
// This package provides commands for laying out a data-model hierarchy,
// simulating the relationship graph of a focused table, inspecting the
// minimap, grading performance and exploring a graph interactively. The CLI
// is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute the hierarchy layout and write it as JSON
//   - graph: Simulate a focused table's relationship graph to rest and export it
//   - minimap: Print the minimap heatmap and viewport indicator
//   - grade, report: Discovery grading and performance recommendations
//   - explore: Interactive, frame-driven relationship graph explorer
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/tablemap/config.toml (or --config).
// Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Layout,
// simulation and performance hooks are forwarded to the logger.
package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablemap/pkg/buildinfo"
	"github.com/matzehuels/tablemap/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tablemap"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config location.
	ConfigPath string

	cfg config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the active configuration.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Tablemap maps data-model hierarchies and table relationships",
		Long:              `Tablemap lays out a data-model hierarchy of base, extended and custom tables, and simulates the reference graph around any table so that customisation hot spots stand out.`,
		Version:           buildinfo.Resolved(),
		SilenceUsage:      true,
		PersistentPreRunE: c.prepare,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: "+displayPath(config.Path())+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.minimapCommand())
	root.AddCommand(c.gradeCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Paths
// =============================================================================

// defaultOutput derives an output path next to input: data/tree.json with
// suffix ".layout.json" becomes data/tree.layout.json.
func defaultOutput(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

func displayPath(p string) string {
	if p == "" {
		return "none"
	}
	return p
}
