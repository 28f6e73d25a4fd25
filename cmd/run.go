package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/waydock/internal/config"
	"github.com/bnema/waydock/internal/ipc"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/toolkit"
	_ "github.com/bnema/waydock/internal/toolkit/headless"
	"github.com/bnema/waydock/internal/wm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the compositor",
	Long: `Run the compositor on the configured backend. The startup command, if
any, is launched through /bin/sh once the display socket is up.`,
	Args: cobra.NoArgs,
	RunE: runCompositor,
}

func init() {
	runCmd.Flags().StringP("startup", "s", "", "Command to launch once the compositor is up")
	runCmd.Flags().StringP("backend", "b", "", fmt.Sprintf("Toolkit backend (%v)", toolkit.Backends()))
	runCmd.Flags().String("ipc-dir", "", "Directory for the state and action files")
	runCmd.Flags().Bool("socket", true, "Serve the IPC socket")

	// Bind flags to viper
	viper.BindPFlag("compositor.startup_command", runCmd.Flags().Lookup("startup"))
	viper.BindPFlag("compositor.backend", runCmd.Flags().Lookup("backend"))
	viper.BindPFlag("ipc.dir", runCmd.Flags().Lookup("ipc-dir"))
	viper.BindPFlag("ipc.socket", runCmd.Flags().Lookup("socket"))
}

func runCompositor(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	if cfg.Logging.FileLogging {
		logFile, err := logger.SetupFileLogging("COMPOSITOR")
		if err != nil {
			return fmt.Errorf("failed to setup file logging: %w", err)
		}
		defer logFile.Close()
	}

	backend, err := toolkit.Open(cfg.Compositor.Backend, toolkit.Options{Outputs: cfg.Compositor.Outputs})
	if err != nil {
		return err
	}

	srv, err := wm.New(backend, wm.Options{
		Fs:             afero.NewOsFs(),
		IPCDir:         cfg.IPC.Dir,
		StartupCommand: cfg.Compositor.StartupCommand,
	})
	if err != nil {
		return fmt.Errorf("failed to create compositor: %w", err)
	}

	if cfg.IPC.Socket {
		sock, err := ipc.NewSocketServer(cfg.IPC.SocketPath, srv)
		if err != nil {
			return err
		}
		if err := sock.Start(); err != nil {
			return fmt.Errorf("failed to start IPC socket: %w", err)
		}
		defer sock.Stop()
		srv.SetPublisher(sock.Publish)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting compositor", "backend", cfg.Compositor.Backend, "ipc_dir", cfg.IPC.Dir)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("Compositor stopped")
	return nil
}
