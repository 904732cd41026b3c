package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newHookCommand(o *rootOptions) *cobra.Command {
	var (
		onRemote bool
		merges   []string
	)

	cmd := &cobra.Command{
		Use:   "hook NAME SCRIPT [-- ARGS...]",
		Short: "Run one resolved hook",
		Long: `Resolve SCRIPT and run the hook NAME (prepare, local, remote or finish)
with ARGS. The hook's result is printed on stdout.

When the script declares a log file, the hook's logs are appended to it.`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd, onRemote)
			if err != nil {
				return err
			}
			result, err := a.RunHook(cmd.Context(), args[1], merges, args[0], args[2:])
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&onRemote, "on-remote", false, "Resolve hooks as a remote worker.")
	cmd.Flags().StringArrayVar(&merges, "merge", nil, "Script to merge over SCRIPT; may be repeated.")

	return cmd
}

func printResult(cmd *cobra.Command, result any) error {
	out := cmd.OutOrStdout()
	switch v := result.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(out, v)
		return err
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode hook result: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
}
