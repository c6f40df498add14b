// Package opus implements the audiocodec interfaces on top of libopus
// (through gopkg.in/hraban/opus.v2).
package opus

import (
	"strings"

	ac "github.com/dh1tw/opusffi/audiocodec"
	"github.com/pkg/errors"
	opus "gopkg.in/hraban/opus.v2"
)

// Engine creates Opus sessions. Encoder tuning passed to NewEngine is
// applied to every encoder it creates.
type Engine struct {
	encoderOpts []Option
}

// NewEngine returns an Engine. The options only affect encoders; sample
// rate, channels and application are always taken from the caller.
func NewEngine(encoderOpts ...Option) *Engine {
	return &Engine{encoderOpts: encoderOpts}
}

// NewDecoder implements audiocodec.Engine.
func (e *Engine) NewDecoder(samplerate int, channels ac.Channels) (ac.Decoder, error) {
	return NewOpusDecoder(Samplerate(samplerate), Channels(int(channels)))
}

// NewEncoder implements audiocodec.Engine.
func (e *Engine) NewEncoder(samplerate int, channels ac.Channels, app ac.Application) (ac.Encoder, error) {
	opts := make([]Option, 0, len(e.encoderOpts)+3)
	opts = append(opts, e.encoderOpts...)
	opts = append(opts,
		Samplerate(samplerate),
		Channels(int(channels)),
		Application(application(app)))
	return NewOpusEncoder(opts...)
}

// application maps the codec independent application onto libopus.
func application(app ac.Application) opus.Application {
	switch app {
	case ac.AppAudio:
		return opus.AppAudio
	case ac.AppLowDelay:
		return opus.AppRestrictedLowdelay
	default:
		return opus.AppVoIP
	}
}

// codecError converts an error returned by libopus into an *audiocodec.Error.
// Argument checks done by the Go binding carry no number and are reported
// as OPUS_BAD_ARG.
func codecError(err error) error {
	if err == nil {
		return nil
	}

	var oe opus.Error
	if errors.As(err, &oe) {
		return &ac.Error{Code: int32(oe), Description: err.Error()}
	}

	return &ac.Error{Code: int32(opus.ErrBadArg), Description: err.Error()}
}

// ParseMaxBandwidth returns the integer representation of an
// Opus max bandwidth value string (typically read from application settings)
func ParseMaxBandwidth(maxBw string) (opus.Bandwidth, error) {
	switch strings.ToLower(maxBw) {
	case "narrowband":
		return opus.Narrowband, nil
	case "mediumband":
		return opus.Mediumband, nil
	case "wideband":
		return opus.Wideband, nil
	case "superwideband":
		return opus.SuperWideband, nil
	case "fullband":
		return opus.Fullband, nil
	}

	return 0, errors.New("unknown opus max bandwidth value")
}
