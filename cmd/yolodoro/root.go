package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sweeney/yolodoro/internal/config"
)

// flagValues is the destination for every command-line flag.
type flagValues struct {
	configPath    string
	length        uint64
	shortPause    uint64
	longPause     uint64
	notifier      string
	waitDismiss   bool
	broker        string
	gpioPin       int
	httpAddr      string
	allowMultiple bool
}

func newRootCommand(d deps) *cobra.Command {
	fv := &flagValues{}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Simplest Pomodoro timer you can think of.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), fv)
			if err != nil {
				return err
			}
			// Past this point failures are not usage errors.
			cmd.SilenceUsage = true
			return serve(cmd.Context(), d, cfg)
		},
	}

	def := config.Default()
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&fv.configPath, "config", "c", "", "Configuration file path (TOML or YAML)")
	pf.Uint64VarP(&fv.length, "length", "l", def.Length, "Length of a pomodoro, in minutes")
	pf.Uint64VarP(&fv.shortPause, "short-pause", "s", def.ShortPause, "Length of a short pause, in minutes")
	pf.Uint64VarP(&fv.longPause, "long-pause", "p", def.LongPause, "Length of a long pause, in minutes")

	f := rootCmd.Flags()
	f.StringVar(&fv.notifier, "notifier", def.Notifier, `Notification backend ("desktop" or "none")`)
	f.BoolVar(&fv.waitDismiss, "wait-dismiss", def.WaitDismiss, "Keep each desktop notification until it is dismissed")
	f.StringVar(&fv.broker, "broker", def.MQTT.Broker, "MQTT broker address (empty to disable)")
	f.IntVar(&fv.gpioPin, "gpio-pin", def.GPIO.Pin, "BCM pin driven high while working (-1 to disable)")
	f.StringVar(&fv.httpAddr, "http", def.HTTP.Addr, "HTTP status address (empty to disable)")
	f.BoolVar(&fv.allowMultiple, "allow-multiple", def.AllowMultiple, "Do not take the single-instance lock")

	rootCmd.AddCommand(newPlanCommand(fv))
	return rootCmd
}

// resolveConfig loads the config file, then applies only the flags the user
// actually set.
func resolveConfig(flags *pflag.FlagSet, fv *flagValues) (config.Config, error) {
	cfg, err := config.Load(fv.configPath)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("length") {
		cfg.Length = fv.length
	}
	if flags.Changed("short-pause") {
		cfg.ShortPause = fv.shortPause
	}
	if flags.Changed("long-pause") {
		cfg.LongPause = fv.longPause
	}
	if flags.Changed("notifier") {
		cfg.Notifier = fv.notifier
	}
	if flags.Changed("wait-dismiss") {
		cfg.WaitDismiss = fv.waitDismiss
	}
	if flags.Changed("broker") {
		cfg.MQTT.Broker = fv.broker
	}
	if flags.Changed("gpio-pin") {
		cfg.GPIO.Pin = fv.gpioPin
	}
	if flags.Changed("http") {
		cfg.HTTP.Addr = fv.httpAddr
	}
	if flags.Changed("allow-multiple") {
		cfg.AllowMultiple = fv.allowMultiple
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
