// Package commands implements the botforge CLI.
package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hardikramesh/botforge/internal/config"
)

var (
	cfgFile string

	cfg *config.Config
	log *logrus.Logger
)

// Execute runs the CLI.
func Execute() error {
	root := &cobra.Command{
		Use:           "botforge",
		Short:         "Build and run containerized trading bots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			log = logrus.New()
			level, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
			}
			log.SetLevel(level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default botforge.yaml in the working directory)")

	root.AddCommand(serveCmd(), buildCmd(), runCmd())
	return root.Execute()
}
