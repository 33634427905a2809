package main

import (
	"fmt"
	"os"

	"github.com/danwilliams/sham"
	"github.com/danwilliams/sham/logging"
	"github.com/spf13/cobra"
)

// options holds the global flags and the settings resolved from them.
type options struct {
	configPath string
	debug      bool
	settings   sham.Settings
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sham",
		Short: "sham - fixture tooling for HTTP and process test doubles",
		Long: `sham validates and summarises the YAML fixture scripts used to build
ordered HTTP client mocks and process command fakes.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := sham.Init(opts.configPath)
			if err != nil {
				return err
			}

			// flags override config due to highest precedence
			if opts.debug && !settings.Debug {
				settings.Debug = true
				logging.Init(logging.Config{
					Level:  settings.LogLevel,
					Debug:  true,
					Format: settings.LogFormat,
					Output: cmd.ErrOrStderr(),
				})
			}
			opts.settings = settings

			if settings.ConfigFile != "" {
				logging.Debug().Msgf("Using config file: %s", settings.ConfigFile)
			} else {
				logging.Debug().Msg("Using default configuration")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default: sham.yaml in current directory)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
