// Package main is the entry point for the application state demo.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/game"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

// SDL and GL calls must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags *config.Flags

	cmd := &cobra.Command{
		Use:           "appdemo",
		Short:         "Menu, game and pause states on a small 3D scene",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}
	flags = config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newConfigCommand(flags))
	return cmd
}

func newConfigCommand(flags *config.Flags) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags)
			if err != nil {
				return err
			}
			if save {
				path, err := cfg.Save()
				if err != nil {
					return fmt.Errorf("saving config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
				return nil
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Write the configuration to the user config directory")
	return cmd
}

func run(flags *config.Flags) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== " + cfg.Demo.Title + " ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		dialog.Message("Failed to start: %v", err).Title(cfg.Demo.Title).Error()
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Warn("shutdown reported errors", zap.Error(err))
		}
	}()

	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		return err
	}

	logger.Info("game closed normally")
	return nil
}
