// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Compositor configuration
	Compositor CompositorConfig `mapstructure:"compositor"`

	// Shell exchange configuration
	IPC IPCConfig `mapstructure:"ipc"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Remote monitor over SSH
	Remote RemoteConfig `mapstructure:"remote"`
}

// CompositorConfig contains session settings
type CompositorConfig struct {
	Backend        string   `mapstructure:"backend"`
	StartupCommand string   `mapstructure:"startup_command"`
	Outputs        []string `mapstructure:"outputs"` // Virtual outputs for the headless backend, "WxH[@Hz]"
}

// IPCConfig contains settings for the state/action files and the socket
type IPCConfig struct {
	Dir        string `mapstructure:"dir"`
	Socket     bool   `mapstructure:"socket"`
	SocketPath string `mapstructure:"socket_path"` // Empty means $XDG_RUNTIME_DIR/waydock.sock
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	FileLogging bool   `mapstructure:"file_logging"` // Enable/disable file logging
	LogLevel    string `mapstructure:"log_level"`    // Override LOG_LEVEL env var
}

// RemoteConfig contains settings for `waydock serve`
type RemoteConfig struct {
	Port          int      `mapstructure:"port"`
	BindAddress   string   `mapstructure:"bind_address"`
	HostKeyPath   string   `mapstructure:"host_key_path"`
	Whitelist     []string `mapstructure:"whitelist"`      // List of allowed SSH key fingerprints
	WhitelistOnly bool     `mapstructure:"whitelist_only"` // Only allow whitelisted keys
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Compositor: CompositorConfig{
			Backend:        "headless",
			StartupCommand: "",
			Outputs:        []string{"1920x1080"},
		},
		IPC: IPCConfig{
			Dir:        os.TempDir(),
			Socket:     true,
			SocketPath: "",
		},
		Logging: LoggingConfig{
			FileLogging: false,
			LogLevel:    "", // Empty means use LOG_LEVEL env var
		},
		Remote: RemoteConfig{
			Port:          2323,
			BindAddress:   "127.0.0.1",
			HostKeyPath:   defaultHostKeyPath(),
			Whitelist:     []string{},
			WhitelistOnly: true,
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("waydock")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("compositor.backend", DefaultConfig.Compositor.Backend)
	viper.SetDefault("compositor.startup_command", DefaultConfig.Compositor.StartupCommand)
	viper.SetDefault("compositor.outputs", DefaultConfig.Compositor.Outputs)

	viper.SetDefault("ipc.dir", DefaultConfig.IPC.Dir)
	viper.SetDefault("ipc.socket", DefaultConfig.IPC.Socket)
	viper.SetDefault("ipc.socket_path", DefaultConfig.IPC.SocketPath)

	viper.SetDefault("logging.file_logging", DefaultConfig.Logging.FileLogging)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	viper.SetDefault("remote.port", DefaultConfig.Remote.Port)
	viper.SetDefault("remote.bind_address", DefaultConfig.Remote.BindAddress)
	viper.SetDefault("remote.host_key_path", DefaultConfig.Remote.HostKeyPath)
	viper.SetDefault("remote.whitelist", DefaultConfig.Remote.Whitelist)
	viper.SetDefault("remote.whitelist_only", DefaultConfig.Remote.WhitelistOnly)

	// WAYDOCK_IPC_DIR overrides ipc.dir, and so on
	viper.SetEnvPrefix("WAYDOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	// Check if config file is already loaded
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	return filepath.Join(configDir(), "waydock.toml")
}

// AddToWhitelist adds an SSH key fingerprint to the remote whitelist
func AddToWhitelist(fingerprint string) error {
	cfg := Get()

	for _, fp := range cfg.Remote.Whitelist {
		if fp == fingerprint {
			return fmt.Errorf("key already whitelisted")
		}
	}

	cfg.Remote.Whitelist = append(cfg.Remote.Whitelist, fingerprint)
	viper.Set("remote.whitelist", cfg.Remote.Whitelist)
	return Save()
}

// RemoveFromWhitelist removes an SSH key fingerprint from the remote whitelist
func RemoveFromWhitelist(fingerprint string) error {
	cfg := Get()

	for i, fp := range cfg.Remote.Whitelist {
		if fp == fingerprint {
			cfg.Remote.Whitelist = append(cfg.Remote.Whitelist[:i], cfg.Remote.Whitelist[i+1:]...)
			viper.Set("remote.whitelist", cfg.Remote.Whitelist)
			return Save()
		}
	}

	return fmt.Errorf("key not found in whitelist")
}

// IsWhitelisted checks if an SSH key fingerprint is whitelisted
func IsWhitelisted(fingerprint string) bool {
	cfg := Get()

	for _, fp := range cfg.Remote.Whitelist {
		if fp == fingerprint {
			return true
		}
	}

	return false
}

// configDir is $XDG_CONFIG_HOME/waydock, falling back to ~/.config/waydock
func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "waydock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "waydock")
}

func defaultHostKeyPath() string {
	return filepath.Join(configDir(), "host_key")
}
