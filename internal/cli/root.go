package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/clipboard"
	"github.com/clipimg/clipimg/internal/common"
	"github.com/clipimg/clipimg/internal/config"
)

var (
	// Flags that apply to all commands
	cfgFile   string
	debugFlag bool

	// The loaded configuration
	cfg *config.Config

	// Logger instance
	logger *zap.Logger

	// Version information - set by main
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "none"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "clipimg",
	Short: "Copy a clipboard image into the workspace",
	Long: `clipimg copies an image from the system clipboard into the workspace
assets directory and prints the resulting file path.

Running clipimg without a subcommand is the same as "clipimg paste".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPaste(cmd)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if debugFlag {
			cfg.Debug = true
		}

		logger, err = common.NewLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Debug("configuration loaded",
			zap.String("assets_dir", cfg.AssetsDir),
			zap.Int("retention_days", cfg.RetentionDays),
			zap.Int("fetch_timeout_s", cfg.Timeouts.Fetch))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// SetVersionInfo stores the build metadata injected by main.
func SetVersionInfo(version, buildTime, commit string) {
	Version, BuildTime, Commit = version, buildTime, commit
	RootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", version, buildTime, commit)
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService constructs the platform clipboard service from the loaded
// configuration.
func newService() clipboard.Service {
	return clipboard.New(logger, clipboard.Options{
		FetchTimeout:  cfg.FetchTimeout(),
		ProbeTimeout:  cfg.ProbeTimeout(),
		ClearTimeout:  cfg.ClearTimeout(),
		WarmUpTimeout: cfg.WarmUpTimeout(),
	})
}

// assetsDir resolves the configured assets directory against the workspace
// root (the current directory unless --workspace overrides it).
func assetsDir(workspace string) (string, error) {
	if filepath.IsAbs(cfg.AssetsDir) {
		return cfg.AssetsDir, nil
	}
	if workspace == "" {
		var err error
		workspace, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(workspace, cfg.AssetsDir), nil
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config dir)")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable verbose per-strategy logging")
}
