package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshgrad/pkg/pipeline"
	"github.com/matzehuels/meshgrad/pkg/watch"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // pipeline formats
	width    int      // svg and wireframe width
	height   int      // svg and wireframe height
	selector string   // css rule selector
	watch    bool     // re-export when the input changes
}

// exportCommand creates the export command. Formats, width and height
// default to the [export] section of the config file.
func (c *CLI) exportCommand() *cobra.Command {
	var formatsStr string
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <gradient.json>",
		Short: "Export a gradient document to CSS, JSX, SVG, PNG and more",
		Long: `Export renders a gradient document in one or more formats.

Formats: css, inline (JSX), svg, png (1920×1080), wireframe (proximity graph
as SVG), dot (proximity graph as Graphviz), json (normalized document).
Use "all" for every format. With several formats, -o is a base path and each
file gets its format's extension.`,
		Example: `  meshgrad export sunset.json -f css
  meshgrad export sunset.json -f css,png -o out/sunset
  meshgrad export sunset.json -f svg --width 1200 --height 800 --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyExportConfig(cmd, &opts, formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.watch {
				return c.watchExport(cmd.Context(), args[0], opts)
			}
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated: css, inline, svg, png, wireframe, dot, json, all")
	cmd.Flags().IntVar(&opts.width, "width", 0, "svg/wireframe width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "svg/wireframe height in pixels")
	cmd.Flags().StringVar(&opts.selector, "selector", "", "CSS selector for the css format")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-export whenever the input file changes")

	return cmd
}

// applyExportConfig fills options the user did not set from the config.
func (c *CLI) applyExportConfig(cmd *cobra.Command, opts *exportOpts, formatsStr string) {
	opts.formats = pipeline.ParseFormats(formatsStr)
	if len(opts.formats) == 0 {
		opts.formats = slices.Clone(c.Config.Export.Formats)
	}
	if !cmd.Flags().Changed("width") {
		opts.width = c.Config.Export.Width
	}
	if !cmd.Flags().Changed("height") {
		opts.height = c.Config.Export.Height
	}
}

// runExport renders input once and writes one file per format.
func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d format(s)", len(opts.formats)))
	if opts.output != "-" {
		spinner.Start()
	}
	result, err := c.newRunner().Execute(ctx, pipeline.Options{
		Input:    input,
		Formats:  opts.formats,
		Width:    opts.width,
		Height:   opts.height,
		Selector: opts.selector,
		Logger:   logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result, input, opts)
	if err != nil {
		return err
	}
	if opts.output == "-" {
		return nil
	}

	prog.done(fmt.Sprintf("Exported %s", input))
	printSuccess("Exported %s", input)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.BlobCount, result.Stats.EdgeCount)
	return nil
}

// writeArtifacts writes each artifact and returns the paths in format
// order. A single format goes to opts.output verbatim when it is set.
func writeArtifacts(result *pipeline.Result, input string, opts exportOpts) ([]string, error) {
	if opts.output == "-" {
		if len(opts.formats) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(opts.formats))
		}
		return nil, writeOutput("-", result.Artifacts[opts.formats[0]])
	}

	base := basePath(opts.output, input)
	paths := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		path := outputPath(base, input, format)
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// watchExport exports once, then again after every change to input, until
// ctx is canceled. Failed re-exports are reported and watching continues.
func (c *CLI) watchExport(ctx context.Context, input string, opts exportOpts) error {
	logger := loggerFromContext(ctx)
	if err := c.runExport(ctx, input, opts); err != nil {
		printWarning("%v", err)
	}

	printInfo("Watching %s", input)
	printNextStep("Stop with", "Ctrl+C")
	return watch.File(ctx, input, watch.Options{
		OnChange: func() error {
			logger.Debug("input changed", "path", input)
			return c.runExport(ctx, input, opts)
		},
		OnError: func(err error) {
			printError("%v", err)
		},
	})
}
