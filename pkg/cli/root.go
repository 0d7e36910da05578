package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

const (
	// Version is the current version of the harness
	Version = "0.3.0"

	configDirEnv = "HARNESS_CONFIG_DIR"
)

// Config holds the global command line configuration
type Config struct {
	ConfigDir string
	Debug     bool
	LogFile   string

	// File is the loaded config.yaml
	File *FileConfig
}

// GlobalConfig is the shared configuration instance
var GlobalConfig = &Config{}

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harness",
		Short: "Canvas harness - exercise a pipeline canvas through its API panel",
		Long: `The canvas harness drives an in-memory pipeline canvas through the same
operations a canvas host exposes: pipeline flow replacement, palette items,
node and port labels, decorations, notification messages and zoom-to-reveal.

Use "harness panel" for the interactive terminal UI or "harness run" to
replay an event script headlessly.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			setupLogging(cmd.ErrOrStderr())
			return nil
		},
	}

	// Persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.canvasharness)")
	cmd.PersistentFlags().StringVar(&GlobalConfig.LogFile, "log-file", "", "Write logs to a rotating file")

	cmd.AddCommand(NewPanelCommand())
	cmd.AddCommand(NewOpsCommand())
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewFixturesCommand())

	return cmd
}

// initConfig resolves the config directory and loads config.yaml,
// writing the defaults on first use.
func initConfig() error {
	GlobalConfig.ConfigDir = GetConfigDir()

	if err := os.MkdirAll(GlobalConfig.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg, err := LoadFileConfig(filepath.Join(GlobalConfig.ConfigDir, configFileName))
	if err != nil {
		return err
	}
	GlobalConfig.File = cfg
	return nil
}

// setupLogging routes the standard logger. A log file always wins; --debug
// alone logs to stderr; otherwise logs are dropped.
func setupLogging(stderr io.Writer) {
	switch {
	case GlobalConfig.LogFile != "":
		log.SetOutput(newRotatingLog(GlobalConfig.LogFile))
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case GlobalConfig.Debug:
		log.SetOutput(stderr)
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	default:
		log.SetOutput(io.Discard)
	}
}

func newRotatingLog(path string) io.Writer {
	return &lj.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// GetConfigDir returns the configuration directory path.
// Priority order: 1) HARNESS_CONFIG_DIR env var, 2) --config-dir, 3) ~/.canvasharness
func GetConfigDir() string {
	if envDir := os.Getenv(configDirEnv); envDir != "" {
		return envDir
	}
	if GlobalConfig.ConfigDir != "" {
		return GlobalConfig.ConfigDir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".canvasharness"
	}
	return filepath.Join(homeDir, ".canvasharness")
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
