package main

import (
	"github.com/spf13/cobra"

	"github.com/iseven/vnu-connect-x/internal/config"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "vnuconnect",
	Short:         "VNU-CONNECT X progression service",
	Long:          "vnuconnect runs the learner progression API: levels, pathways, missions, badges, leaderboard and the project/mentor catalog.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./config.yaml, ./config/config.yaml, /etc/vnu-connect-x/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(pathwaysCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration named by --config and initialises the global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	return cfg, logger.Get(), nil
}
