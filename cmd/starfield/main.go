// Command starfield animates a twinkling star field with shooting stars in the terminal
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/starfield/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// rootFlags are shared by every subcommand
type rootFlags struct {
	configPath string
	debug      bool
	seed       uint64
	color      string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "starfield",
		Short: "Twinkling star field with shooting stars for the terminal",
		Long: `starfield renders ambient twinkling points and occasional shooting stars
into the terminal using half-block cells.

Keys: space pause, r reseed, m toggle chime, h toggle status line, q/Esc quit.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnimation(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "config file (YAML), missing file uses defaults")
	pf.BoolVar(&flags.debug, "debug", false, "write debug logs to the log dir and show the status line")
	pf.Uint64Var(&flags.seed, "seed", 0, "random seed, 0 picks one from the clock")
	pf.StringVar(&flags.color, "color", "", "color mode: auto, truecolor or 256")

	root.AddCommand(
		newSnapshotCmd(flags),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}

// loadConfig resolves the config file and environment, then applies flags that were set explicitly
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	cfg = flags.apply(cfg, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply overlays the flags reported by changed onto cfg
// Flags override the file and environment, on load and on every reload
func (f *rootFlags) apply(cfg config.Config, changed func(name string) bool) config.Config {
	if changed("debug") {
		cfg.Log.Debug = f.debug
		cfg.Terminal.HUD = cfg.Terminal.HUD || f.debug
	}
	if changed("color") {
		cfg.Terminal.Color = f.color
	}
	return cfg
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
