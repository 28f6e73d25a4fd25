package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/bnema/waydock/internal/config"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/network"
	"github.com/bnema/waydock/internal/ui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveApprove bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workspace monitor over SSH",
	Long: `Serve the live workspace view to remote terminals over SSH. Only keys
listed in remote.whitelist are let in unless whitelist_only is off; with
--approve unknown keys are confirmed on this terminal and remembered.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on")
	serveCmd.Flags().String("bind", "", "Bind address")
	serveCmd.Flags().BoolVar(&serveApprove, "approve", false, "Ask before letting unknown keys in")

	// Bind flags to viper
	viper.BindPFlag("remote.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("remote.bind_address", serveCmd.Flags().Lookup("bind"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	addr := net.JoinHostPort(cfg.Remote.BindAddress, strconv.Itoa(cfg.Remote.Port))

	srv := network.NewSSHServer(addr, cfg.Remote.HostKeyPath, ui.Connect(newClient(), newBridge()))
	if serveApprove {
		srv.OnAuthRequest = confirmKey()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Stop()

	logger.Infof("SSH host key: %s", cfg.Remote.HostKeyPath)
	logger.Infof("Connect with: ssh -p %d %s", cfg.Remote.Port, cfg.Remote.BindAddress)

	<-ctx.Done()
	logger.Info("Shutting down SSH monitor")
	return nil
}

// confirmKey prompts on the local terminal, one key at a time.
func confirmKey() func(addr, fingerprint string) bool {
	var mu sync.Mutex
	return func(addr, fingerprint string) bool {
		mu.Lock()
		defer mu.Unlock()

		var approved bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Let %s in?", addr)).
					Description(fingerprint).
					Affirmative("Allow").
					Negative("Deny").
					Value(&approved),
			),
		).Run()
		if err != nil {
			logger.Warnf("Approval prompt failed: %v", err)
			return false
		}
		return approved
	}
}
