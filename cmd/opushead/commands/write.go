package commands

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesyncim/opushead"
)

var (
	writeChannels int
	writePreSkip  uint16
	writeGain     int16
	writeRate     uint32
	writeOutput   string
	writeHex      bool
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Build a canonical OpusHead packet",
	Long: `Build an OpusHead packet and write it to --output, or print it as hex.

Mono and stereo use mapping family 0. Three to eight channels use mapping
family 1 with one uncoupled stream per channel. Unset values come from the
defaults section of the configuration.`,
	Args: cobra.NoArgs,
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().IntVar(&writeChannels, "channels", 2, "channel count (1-8)")
	writeCmd.Flags().Uint16Var(&writePreSkip, "pre-skip", 0, "samples to discard at 48 kHz (default from config)")
	writeCmd.Flags().Int16Var(&writeGain, "gain", 0, "output gain in Q7.8 dB (default from config)")
	writeCmd.Flags().Uint32Var(&writeRate, "rate", 0, "informational input sample rate (default from config)")
	writeCmd.Flags().StringVarP(&writeOutput, "output", "o", "", "output file")
	writeCmd.Flags().BoolVar(&writeHex, "hex", false, "print the packet as hex to stdout")
}

func runWrite(cmd *cobra.Command, args []string) error {
	defaults := globalConfig.Defaults
	flags := cmd.Flags()
	if !flags.Changed("pre-skip") {
		writePreSkip = defaults.PreSkip
	}
	if !flags.Changed("gain") {
		writeGain = defaults.Gain
	}
	if !flags.Changed("rate") {
		writeRate = defaults.InputRate
	}

	h, err := opushead.NewHeader(writeChannels, writePreSkip, writeGain)
	if err != nil {
		return err
	}
	packet, err := opushead.Marshal(h, writeRate)
	if err != nil {
		return err
	}
	logger.Debug().
		Uint8("channels", h.Channels).
		Uint8("family", h.MappingFamily).
		Int("bytes", len(packet)).
		Msg("header built")

	if writeOutput != "" {
		if err := os.WriteFile(writeOutput, packet, 0o644); err != nil {
			return err
		}
		logger.Info().Str("file", writeOutput).Int("bytes", len(packet)).Msg("header written")
	}
	if writeHex || writeOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(packet))
	}
	return nil
}
