package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/grifork/internal/config"
	"gopkg.in/yaml.v3"
)

func newShowCommand(o *rootOptions) *cobra.Command {
	var (
		onRemote bool
		merges   []string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "show SCRIPT",
		Short: "Print the resolved configuration of a script",
		Long: `Interpret SCRIPT, merge every --merge file over it in order and print the
resulting configuration. Hooks are reported by presence only.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return usageError(fmt.Sprintf("invalid format %q: must be 'yaml' or 'json'", format))
			}
			a, err := o.newApp(cmd, onRemote)
			if err != nil {
				return err
			}
			cfg, err := a.Resolve(cmd.Context(), args[0], merges...)
			if err != nil {
				return err
			}
			return writeSnapshot(cmd.OutOrStdout(), cfg.Snapshot(), format)
		},
	}

	cmd.Flags().BoolVar(&onRemote, "on-remote", false, "Resolve hooks as a remote worker.")
	cmd.Flags().StringArrayVar(&merges, "merge", nil, "Script to merge over SCRIPT; may be repeated.")
	cmd.Flags().StringVarP(&format, "format", "o", "yaml", "Output format: yaml or json.")

	return cmd
}

func writeSnapshot(w io.Writer, snap config.Snapshot, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
