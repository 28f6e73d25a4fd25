package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/waydock/internal/ipc"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/ui"
	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use:   "action [ACTION ID]",
	Short: "Dock, undock, maximize, restore or close a window",
	Long: `Submit an action against a window, identified by the id shown in
'waydock state'. Without arguments an interactive picker is shown.

Actions: ` + actionNames(),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected ACTION and ID, or no arguments")
		}
		return nil
	},
	RunE: runAction,
}

func actionNames() string {
	names := make([]string, 0, len(ipc.Actions()))
	for _, a := range ipc.Actions() {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}

func runAction(cmd *cobra.Command, args []string) error {
	var req ipc.Request
	if len(args) == 2 {
		action, err := ipc.ParseAction(strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		req = ipc.Request{Action: action, ID: args[1]}
	} else {
		snap, err := fetchState()
		if err != nil {
			return fmt.Errorf("failed to read the workspace: %w", err)
		}
		req, err = ui.PickAction(snap)
		if err != nil {
			return err
		}
	}

	viaSocket, err := submitAction(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", req, err)
	}

	if viaSocket {
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus(true, req.Action.Description()))
	} else {
		logger.Debug("Action queued", "request", req.String())
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus(true, "Queued "+req.String()))
	}
	return nil
}
