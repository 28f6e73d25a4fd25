package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/waydock/internal/config"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage waydock configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.TitleStyle.Render("Current Configuration"))
		fmt.Fprintf(out, "Config file: %s\n\n", config.GetConfigPath())

		fmt.Fprintln(out, ui.SubheaderStyle.Render("[compositor]"))
		fmt.Fprintf(out, "  Backend: %s\n", cfg.Compositor.Backend)
		fmt.Fprintf(out, "  Startup Command: %s\n", cfg.Compositor.StartupCommand)
		fmt.Fprintf(out, "  Outputs: %v\n", cfg.Compositor.Outputs)

		fmt.Fprintln(out, ui.SubheaderStyle.Render("\n[ipc]"))
		fmt.Fprintf(out, "  Dir: %s\n", cfg.IPC.Dir)
		fmt.Fprintf(out, "  Socket: %v\n", cfg.IPC.Socket)
		if cfg.IPC.SocketPath != "" {
			fmt.Fprintf(out, "  Socket Path: %s\n", cfg.IPC.SocketPath)
		}

		fmt.Fprintln(out, ui.SubheaderStyle.Render("\n[logging]"))
		fmt.Fprintf(out, "  File Logging: %v\n", cfg.Logging.FileLogging)
		fmt.Fprintf(out, "  Log Level: %s\n", logger.GetLevel())

		fmt.Fprintln(out, ui.SubheaderStyle.Render("\n[remote]"))
		fmt.Fprintf(out, "  Listen: %s:%d\n", cfg.Remote.BindAddress, cfg.Remote.Port)
		fmt.Fprintf(out, "  Host Key: %s\n", cfg.Remote.HostKeyPath)
		fmt.Fprintf(out, "  Whitelist Only: %v\n", cfg.Remote.WhitelistOnly)
		for _, fp := range cfg.Remote.Whitelist {
			fmt.Fprintf(out, "    - %s\n", fp)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(configPath); err == nil && !force {
			logger.Infof("Configuration already exists at: %s", configPath)
			logger.Info("Use --force to overwrite it")
			return nil
		}

		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration initialized at: %s", configPath)
		return nil
	},
}

var configWhitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage the SSH key whitelist of 'waydock serve'",
}

var configWhitelistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List whitelisted SSH keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		if len(cfg.Remote.Whitelist) == 0 {
			fmt.Fprintln(out, "No SSH keys in whitelist")
		}
		for i, fp := range cfg.Remote.Whitelist {
			fmt.Fprintf(out, "%d. %s\n", i+1, fp)
		}

		if cfg.Remote.WhitelistOnly {
			fmt.Fprintln(out, "Whitelist-only mode is ENABLED")
		} else {
			fmt.Fprintln(out, "Whitelist-only mode is DISABLED, all SSH keys are accepted")
		}
		return nil
	},
}

var configWhitelistAddCmd = &cobra.Command{
	Use:   "add <fingerprint>",
	Short: "Add an SSH key fingerprint to the whitelist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.AddToWhitelist(args[0]); err != nil {
			return err
		}
		logger.Infof("Added SSH key to whitelist: %s", args[0])
		return nil
	},
}

var configWhitelistRemoveCmd = &cobra.Command{
	Use:   "remove <fingerprint>",
	Short: "Remove an SSH key fingerprint from the whitelist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.RemoveFromWhitelist(args[0]); err != nil {
			return err
		}
		logger.Infof("Removed SSH key from whitelist: %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configWhitelistCmd)

	configWhitelistCmd.AddCommand(configWhitelistListCmd)
	configWhitelistCmd.AddCommand(configWhitelistAddCmd)
	configWhitelistCmd.AddCommand(configWhitelistRemoveCmd)

	configInitCmd.Flags().Bool("force", false, "Force overwrite existing configuration")
}
