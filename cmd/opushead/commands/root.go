package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thesyncim/opushead/internal/config"
	"github.com/thesyncim/opushead/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Set by the root command before any subcommand runs.
	globalConfig *config.Config
	logger       = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "opushead",
	Short: "Inspect and write Opus identification headers",
	Long: `opushead reads and writes the OpusHead packet that starts every Ogg Opus
stream: channel count, pre-skip, output gain and the channel mapping.

Streams with more than two channels are always written with mapping family 1,
one uncoupled stream per channel, in Vorbis channel order.

Examples:
  # Show the header of an Ogg Opus file
  opushead inspect music.opus

  # Same, as JSON
  opushead inspect music.opus --json | jq .channels

  # Build a 5.1 header
  opushead write --channels 6 --hex

  # Copy a file, replacing its header with the canonical one
  opushead rewrite --gain -256 in.opus out.opus
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $"+config.EnvPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: color, text, json (default autodetect)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(rewriteCmd)
}

// initApp loads the configuration and builds the logger. Flags override
// the file.
func initApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	l, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}

	globalConfig = cfg
	logger = l
	return nil
}
