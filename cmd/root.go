package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hmcmod/config"
	"github.com/kilianp07/hmcmod/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "hmcmod",
	Short:         "Assemble HMC action modules from a configuration tree",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Console, cmd.ErrOrStderr()); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, nil
}
