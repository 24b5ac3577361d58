package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/btursunbayev/blocksim/config"
)

var version = "0.1.0"

type rootOpts struct {
	configPath string
	preset     string
	debug      bool
}

func rootCmd() *cobra.Command {
	opts := &rootOpts{}
	cmd := &cobra.Command{
		Use:           "blocksim",
		Short:         "discrete-event blockchain network simulator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.preset, "preset", "",
		"start from a built-in scenario ("+strings.Join(config.Presets(), ", ")+")")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.AddCommand(runCmd(opts), resumeCmd(opts), presetsCmd())
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
