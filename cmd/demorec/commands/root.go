package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanchriswhite/demorec/internal/config"
	"github.com/bryanchriswhite/demorec/internal/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "demorec",
		Short: "demorec - screen recorder for product demos",
		Long: `demorec records a single application window (or a full screen) to MP4
using ffmpeg, with automatic window discovery and multi-display geometry
handling.

It can run standalone from the command line, or as an MCP server over stdio
so agent tooling can drive recordings programmatically.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/demorec/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("recordings-dir", "", "directory for recorded files")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("recordings_dir", rootCmd.PersistentFlags().Lookup("recordings-dir"))
}

// loadConfig resolves configuration, applies flag overrides and initializes
// logging. Every subcommand goes through here.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("recordings_dir"); v != "" {
		cfg.RecordingsDir = v
	}

	// Pretty console logs on a terminal, JSON otherwise.
	pretty := false
	if info, err := os.Stderr.Stat(); err == nil {
		pretty = info.Mode()&os.ModeCharDevice != 0
	}
	logger.Init(cfg.LogLevel, pretty)
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
