package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesyncim/opushead"
	"github.com/thesyncim/opushead/container/ogg"
)

// errLayoutMismatch reports a source whose packets are not coded for the
// canonical stream layout.
var errLayoutMismatch = errors.New("stream layout differs from the canonical layout")

var (
	rewriteRate uint32
	rewriteGain int16
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite IN OUT",
	Short: "Copy an Ogg Opus stream with a canonical OpusHead",
	Long: `Copy the Ogg Opus stream IN to OUT, replacing its identification header
with the canonical one for its channel count. Packets, comments, the serial
number and the end trimming of the last page are kept.

The canonical header for more than two channels is mapping family 1 with one
uncoupled stream per channel in Vorbis order. Sources coded with any other
stream layout, such as the usual coupled 5.1, are refused because their
packets would not decode under it.`,
	Args: cobra.ExactArgs(2),
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().Uint32Var(&rewriteRate, "rate", 0, "replace the informational input sample rate")
	rewriteCmd.Flags().Int16Var(&rewriteGain, "gain", 0, "replace the output gain (Q7.8 dB)")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	r, err := ogg.NewReader(in)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if h := r.Header(); !h.HasCanonicalLayout() {
		want, _ := opushead.NewHeader(int(h.Channels), 0, 0)
		return fmt.Errorf("%s: %w: family %d, %d streams, %d coupled, map %v; want family %d, %d streams, %d coupled, map %v",
			args[0], errLayoutMismatch,
			h.MappingFamily, h.StreamCount, h.CoupledCount, h.Mapping(),
			want.MappingFamily, want.StreamCount, want.CoupledCount, want.Mapping())
	}

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}

	n, err := rewrite(cmd, r, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Info().Str("in", args[0]).Str("out", args[1]).Int("packets", n).Msg("stream rewritten")
	return nil
}

// rewrite copies every packet of r to w under a new header and returns the
// packet count.
func rewrite(cmd *cobra.Command, r *ogg.Reader, w io.Writer) (int, error) {
	config := ogg.WriterConfig{
		Header:          *r.Header(),
		InputSampleRate: r.InputSampleRate(),
		Vendor:          r.Tags().Vendor,
		Comments:        r.Tags().Comments,
		Serial:          r.Serial(),
	}
	if cmd.Flags().Changed("rate") {
		config.InputSampleRate = rewriteRate
	}
	if cmd.Flags().Changed("gain") {
		config.Header.OutputGain = rewriteGain
	}

	ow, err := ogg.NewWriterWithConfig(w, config)
	if err != nil {
		return 0, err
	}

	// One packet is held back so the last can keep the source's final
	// granule position.
	var (
		held    []byte
		samples int
		count   int
	)
	for {
		packet, _, err := r.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}
		if held != nil {
			if err := ow.WritePacket(held, samples); err != nil {
				return count, err
			}
		}
		if samples, err = ogg.PacketSamples(packet); err != nil {
			return count, err
		}
		held = packet
		count++
	}

	if held != nil {
		end := ow.GranulePos() + uint64(samples)
		if last := r.GranulePos(); last >= ow.GranulePos() && last < end {
			end = last
		}
		if err := ow.WritePacketAt(held, end); err != nil {
			return count, err
		}
	}
	logger.Debug().Uint64("granule", ow.GranulePos()).Uint32("pages", ow.PageCount()).Msg("stream written")
	return count, ow.Close()
}
