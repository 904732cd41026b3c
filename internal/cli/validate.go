package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newValidateCommand(o *rootOptions) *cobra.Command {
	var onRemote bool

	cmd := &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check that scripts load",
		Long: `Load every script named on the command line. Directories are searched for
Griforkfiles and *.grifork files.

Exit code: 0 if every script loads, 1 otherwise.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd, onRemote)
			if err != nil {
				return err
			}
			results, err := a.Validate(cmd.Context(), args...)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return &ExitError{Code: 1, Message: "no scripts found"}
			}

			ok := color.New(color.FgGreen).SprintFunc()
			fail := color.New(color.FgRed, color.Bold).SprintFunc()
			out := cmd.OutOrStdout()

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(out, "%s %s\n    %v\n", fail("FAIL"), r.Path, r.Err)
					continue
				}
				fmt.Fprintf(out, "%s   %s\n", ok("ok"), r.Path)
			}

			if failed > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d scripts failed to load", failed, len(results))}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&onRemote, "on-remote", false, "Resolve hooks as a remote worker.")

	return cmd
}
