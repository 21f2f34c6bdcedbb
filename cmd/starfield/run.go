package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/logging"
	"github.com/lixenwraith/starfield/terminal"
)

// requireTerminal is swapped in tests
var requireTerminal = terminal.RequireTerminal

// newScreen is swapped in tests
var newScreen = tcell.NewScreen

func runAnimation(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	if err := requireTerminal(os.Stdout.Fd()); err != nil {
		return err
	}

	logger, flush, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer flush()

	screen, err := newScreen()
	if err != nil {
		return err
	}

	seed := seedOrClock(flags.seed)
	a := newApp(cfg, screen, seed, logger)
	changed := cmd.Flags().Changed
	a.overlay = func(c config.Config) config.Config { return flags.apply(c, changed) }
	logger.Info("starting", zap.Uint64("seed", seed), zap.String("config", flags.configPath))

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.start(); err != nil {
		return err
	}
	a.watch(ctx, flags.configPath)
	a.wait(ctx)
	a.stop()
	return nil
}
