package config

import (
	"strings"

	"github.com/dh1tw/opusffi/audiocodec/opus"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Validate checks all settings and returns the first offending one.
func (s Settings) Validate() error {

	if s.Log.Level != "" {
		if _, err := zapcore.ParseLevel(s.Log.Level); err != nil {
			return &parmError{
				parm: "log.level",
				msg:  "allowed values are debug, info, warn, error or empty (disabled)",
			}
		}
	}

	switch strings.ToLower(s.Log.Format) {
	case "console", "json":
	default:
		return &parmError{
			parm: "log.format",
			msg:  "allowed values are console or json",
		}
	}

	if br := s.Opus.Bitrate; br != 0 && (br < 6000 || br > 510000) {
		return &parmError{
			parm: "opus.bitrate",
			msg:  "allowed values are 0 (libopus default) or [6000...510000]",
		}
	}

	if c := s.Opus.Complexity; c < -1 || c > 10 {
		return &parmError{
			parm: "opus.complexity",
			msg:  "allowed values are -1 (libopus default) or [0...10]",
		}
	}

	if bw := s.Opus.MaxBandwidth; bw != "" {
		if _, err := opus.ParseMaxBandwidth(bw); err != nil {
			return &parmError{
				parm: "opus.max-bandwidth",
				msg:  "allowed values are NARROWBAND, MEDIUMBAND, WIDEBAND, SUPERWIDEBAND, FULLBAND",
			}
		}
	}

	if p := s.Opus.PacketLossPerc; p < 0 || p > 100 {
		return &parmError{
			parm: "opus.packet-loss-perc",
			msg:  "allowed values are [0...100]",
		}
	}

	return nil
}

// EncoderOptions turns the opus settings into encoder options.
func (o OpusSettings) EncoderOptions() ([]opus.Option, error) {

	opts := []opus.Option{
		opus.Bitrate(o.Bitrate),
		opus.Complexity(o.Complexity),
		opus.InbandFEC(o.InbandFEC),
		opus.PacketLossPerc(o.PacketLossPerc),
	}

	if o.MaxBandwidth != "" {
		bw, err := opus.ParseMaxBandwidth(o.MaxBandwidth)
		if err != nil {
			return nil, errors.Wrap(err, "opus.max-bandwidth")
		}
		opts = append(opts, opus.MaxBandwidth(bw))
	}

	return opts, nil
}
