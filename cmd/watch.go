package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/waydock/internal/ui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the workspace live",
	Long: `Open a live view of the workspace. Windows can be docked, undocked,
maximized, restored or closed from the keyboard; press ? for the bindings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return ui.RunMonitor(ctx, ui.Connect(newClient(), newBridge()))
	},
}
