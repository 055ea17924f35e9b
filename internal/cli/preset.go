package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	"github.com/matzehuels/meshgrad/pkg/pipeline"
)

// presetCommand creates the preset command group.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List and show built-in presets",
	}
	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetShowCommand())
	return cmd
}

func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printPresets(gradient.Presets())
			return nil
		},
	}
}

func (c *CLI) presetShowCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:       "show <name>",
		Short:     "Show a preset, or export it with -o/-f",
		Args:      cobra.ExactArgs(1),
		ValidArgs: gradient.PresetNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := lookupPreset(args[0])
			if err != nil {
				return err
			}
			if output == "" && format == "" {
				printPreset(p)
				return nil
			}
			if format == "" {
				format = pipeline.FormatJSON
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			return c.emit(cmd.Context(), p.State(), format, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the preset to a file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (default json when writing)")

	return cmd
}

// lookupPreset resolves a preset by name with a coded error.
func lookupPreset(name string) (gradient.Preset, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return gradient.Preset{}, err
	}
	p, ok := gradient.LookupPreset(name)
	if !ok {
		return gradient.Preset{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q", name)
	}
	return p, nil
}

func printPresets(presets []gradient.Preset) {
	fmt.Fprintln(stdout, StyleTitle.Render("Presets"))
	for _, p := range presets {
		line := ""
		for _, b := range p.Blobs {
			line += swatch(b.Color)
		}
		fmt.Fprintf(stdout, "  %-10s %s %s\n", p.Name, swatch(p.Background)+line, StyleDim.Render(p.Description))
	}
	printNewline()
	printNextStep("Export one", "meshgrad preset show aurora -f css")
}

func printPreset(p gradient.Preset) {
	fmt.Fprintln(stdout, StyleTitle.Render(p.Name))
	printDetail("%s", p.Description)
	printNewline()
	printKeyValue("Background", swatch(p.Background)+" "+p.Background)
	fmt.Fprintln(stdout, blobTable(p.State()))
}
