package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eval/evaluation/config"
	"github.com/RyanBlaney/sonido-eval/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sonido-eval",
		Short: "Pitch estimation and melody transcription scoring",
		Long: `sonido-eval converts between pitch units, runs the YIN and MPM pitch
estimators, and scores transcribed melodies against their references.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "JSON configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	cmd.AddCommand(
		newNoteCmd(),
		newDetectCmd(opts),
		newScoreCmd(),
		newEvaluateCmd(opts),
	)
	return cmd
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		f, err := os.Open(o.configPath)
		if err != nil {
			return err
		}
		defer f.Close()

		cfg, err = config.Load(f)
		if err != nil {
			return fmt.Errorf("%s: %w", o.configPath, err)
		}
	}
	o.cfg = cfg

	level := o.logLevel
	if !cmd.Flags().Changed("log-level") && o.configPath != "" {
		level = cfg.LogLevel
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(logging.ParseLevel(level))
	logging.SetGlobalLogger(logger)
	return nil
}
