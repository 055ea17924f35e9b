// Package cli implements the meshgrad command-line interface.
//
// The commands share one logger and one configuration, both owned by CLI:
//
//   - export: render a gradient document to css, inline, svg, png, wireframe,
//     dot or json files, optionally re-rendering on every save
//   - random: generate a random gradient document
//   - preset: list and show the built-in presets
//   - inspect: print a gradient with color swatches and its proximity edges
//   - edit: interactive terminal editor with mouse support
//   - serve: HTTP API over in-memory editing sessions
//
// All commands support --verbose (-v) for debug logging and --config to
// point at a TOML file other than ~/.config/meshgrad/config.toml.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshgrad/pkg/buildinfo"
	"github.com/matzehuels/meshgrad/pkg/config"
	"github.com/matzehuels/meshgrad/pkg/observability"
	"github.com/matzehuels/meshgrad/pkg/pipeline"
)

// appName is the application name used for display.
const appName = "meshgrad"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a CLI that logs to w and starts from the default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "meshgrad builds mesh gradients from radial blobs",
		Long:         `meshgrad composes up to six colored radial gradients over a background and exports the result as CSS, JSX, SVG or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/meshgrad/config.toml)")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.randomCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default location when the
// flag is empty, and registers the logging hooks.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)

	hooks := &logHooks{logger: c.Logger}
	observability.SetExportHooks(hooks)
	observability.SetSessionHooks(hooks)
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Output Paths
// =============================================================================

// basePath derives the base output path from the output and input paths.
// If output is empty, the input extension is stripped. A known format
// extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "gradient"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Longest match first so "x.wireframe.svg" loses both parts.
	strip := ""
	for _, ext := range pipeline.Extensions {
		if strings.HasSuffix(output, ext) && len(ext) > len(strip) {
			strip = ext
		}
	}
	return strings.TrimSuffix(output, strip)
}

// outputPath returns the file for format under base. When the base equals
// the input document, json output gets a suffix so it does not overwrite
// its own input.
func outputPath(base, input, format string) string {
	path := base + pipeline.Extensions[format]
	if input != "" && filepath.Clean(path) == filepath.Clean(input) {
		path = base + ".out" + pipeline.Extensions[format]
	}
	return path
}

// openOutput returns stdout for "" or "-", otherwise a new file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeOutput writes data to path via openOutput.
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
