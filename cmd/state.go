package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/waydock/internal/ui"
	"github.com/spf13/cobra"
)

var stateJSON bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the workspace state",
	Long: `Show the windows of the running compositor. The socket is asked first;
without it the last exported state file is read.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := fetchState()
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no workspace state found, is waydock running?")
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if stateJSON {
			data, err := snap.Encode()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}

		fmt.Fprintln(out, ui.HeaderStyle.Render("Workspace"))
		fmt.Fprint(out, ui.RenderSnapshot(snap, ""))
		return nil
	},
}

func init() {
	stateCmd.Flags().BoolVar(&stateJSON, "json", false, "Print the raw state document")
}
