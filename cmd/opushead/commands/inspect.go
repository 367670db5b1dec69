package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesyncim/opushead"
	"github.com/thesyncim/opushead/container/ogg"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the OpusHead of an Ogg Opus file or a raw header packet",
	Long: `Print the identification header of FILE.

FILE is read as an Ogg Opus stream when it starts with "OggS", otherwise as a
raw OpusHead packet. For Ogg input the comment header and the stream length
are shown as well. The length runs from the stream's starting granule
position, less the pre-skip, to the final granule position.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
}

// headerInfo is the printed form of an identification header.
type headerInfo struct {
	Source           string   `json:"source" yaml:"source"`
	Version          uint8    `json:"version" yaml:"version"`
	Channels         uint8    `json:"channels" yaml:"channels"`
	PreSkip          uint16   `json:"pre_skip" yaml:"pre_skip"`
	OutputGain       int16    `json:"output_gain" yaml:"output_gain"`
	OutputGainDB     float64  `json:"output_gain_db" yaml:"output_gain_db"`
	InputSampleRate  uint32   `json:"input_sample_rate" yaml:"input_sample_rate"`
	DecodeSampleRate int      `json:"decode_sample_rate" yaml:"decode_sample_rate"`
	MappingFamily    uint8    `json:"mapping_family" yaml:"mapping_family"`
	StreamCount      uint8    `json:"stream_count" yaml:"stream_count"`
	CoupledCount     uint8    `json:"coupled_count" yaml:"coupled_count"`
	StreamMap        []int    `json:"stream_map" yaml:"stream_map,flow"`
	Vendor           string   `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Comments         []string `json:"comments,omitempty" yaml:"comments,omitempty"`
	Packets          int      `json:"packets,omitempty" yaml:"packets,omitempty"`
	Duration         float64  `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

func newHeaderInfo(source string, raw []byte, h *opushead.Header, inputRate uint32) *headerInfo {
	info := &headerInfo{
		Source:           source,
		Version:          raw[8],
		Channels:         h.Channels,
		PreSkip:          h.PreSkip,
		OutputGain:       h.OutputGain,
		OutputGainDB:     h.GainDB(),
		InputSampleRate:  inputRate,
		DecodeSampleRate: opushead.DecodeSampleRate,
		MappingFamily:    h.MappingFamily,
		StreamCount:      h.StreamCount,
		CoupledCount:     h.CoupledCount,
	}
	for _, b := range h.Mapping() {
		info.StreamMap = append(info.StreamMap, int(b))
	}
	return info
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	logger.Debug().Str("file", path).Int("bytes", len(data)).Msg("inspecting")

	var info *headerInfo
	if bytes.HasPrefix(data, []byte("OggS")) {
		info, err = inspectOgg(data)
	} else {
		info, err = inspectRaw(data)
	}
	if err != nil {
		logger.Debug().Err(err).Str("file", path).Msg("header rejected")
		return fmt.Errorf("%s: %w", path, err)
	}

	return outputResult(cmd.OutOrStdout(), info, inspectJSON)
}

func inspectRaw(data []byte) (*headerInfo, error) {
	h, err := opushead.Parse(data)
	if err != nil {
		return nil, err
	}
	rate, err := opushead.InputSampleRate(data)
	if err != nil {
		return nil, err
	}
	return newHeaderInfo("raw", data, h, rate), nil
}

func inspectOgg(data []byte) (*headerInfo, error) {
	r, err := ogg.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	info := newHeaderInfo("ogg", r.RawHeader(), r.Header(), r.InputSampleRate())
	info.Vendor = r.Tags().Vendor
	for _, c := range r.Tags().Comments {
		info.Comments = append(info.Comments, c.Key+"="+c.Value)
	}

	// The stream starts at the granule of the first audio page minus the
	// samples of the packets ending on it, which is not 0 for a stream cut
	// from a longer one.
	var (
		first        uint64
		firstSamples uint64
		onFirst      = true
		known        = true
	)
	for {
		packet, granule, err := r.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if info.Packets == 0 {
			first = granule
		}
		info.Packets++

		if onFirst = onFirst && granule == first; onFirst && known {
			n, err := ogg.PacketSamples(packet)
			if err != nil {
				logger.Debug().Err(err).Msg("duration unknown")
				known = false
			} else {
				firstSamples += uint64(n)
			}
		}
	}

	if known && info.Packets > 0 && first >= firstSamples {
		start := first - firstSamples
		if end, skip := r.GranulePos(), uint64(r.PreSkip()); end > start+skip {
			info.Duration = float64(end-start-skip) / opushead.DecodeSampleRate
		}
	}
	logger.Debug().Uint32("serial", r.Serial()).Int("packets", info.Packets).Msg("stream read")
	return info, nil
}
