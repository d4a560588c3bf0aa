package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/weegigs/wee-counter-go/support"
)

var (
	cfg     *support.Config
	pretty  bool
	store   string
	rootCmd = &cobra.Command{
		Use:           "counter",
		Short:         "bounded counter service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.AddCommand(
		serveCmd,
		callCmd,
		viewCmd,
	)

	rootCmd.PersistentFlags().BoolVar(
		&pretty,
		"pretty",
		false,
		"human readable log output",
	)

	rootCmd.PersistentFlags().StringVar(
		&store,
		"store",
		"",
		"slot store to use, overrides WE_STORE",
	)

	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) (err error) {
		if pretty {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}

		cfg, err = support.LoadConfig()
		if err != nil {
			return err
		}

		if store != "" {
			cfg.Store = support.StoreKind(store)
		}

		return nil
	}
}
