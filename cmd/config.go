package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/typeahead/internal/config"
	"github.com/oakwood-commons/typeahead/internal/formatter"
)

var configOutput string

// configCmd prints the merged configuration. Flags given on the command
// line are applied, so the output is what a TUI run would use.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the merged typeahead configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runConfigView(cmd.OutOrStdout(), cfg, configOutput)
	},
}

var configThemesCmd = &cobra.Command{
	Use:     "themes",
	Aliases: []string{"theme"},
	Short:   "List available themes",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runThemesList(cmd.OutOrStdout(), cfg)
	},
}

func init() { //nolint:gochecknoinits
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json")
}

func runConfigView(w io.Writer, cfg config.File, output string) error {
	clean := cfg.Sanitize()
	if output == "" || output == string(formatter.OutputYAML) {
		data, err := config.Marshal(clean)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	out, err := formatter.ParseOutput(output)
	if err != nil {
		return err
	}
	if out != formatter.OutputJSON {
		return fmt.Errorf("invalid output for config: %s (use yaml|json)", output)
	}
	text, err := formatter.Encode(clean, out)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func runThemesList(w io.Writer, cfg config.File) error {
	fmt.Fprintf(w, "Available themes (default: %s):\n", cfg.UI.Theme.Default)
	for _, name := range cfg.ThemeNames() {
		fmt.Fprintf(w, " - %s\n", name)
	}
	return nil
}
