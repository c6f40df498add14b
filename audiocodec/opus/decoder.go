package opus

import (
	"fmt"

	ac "github.com/dh1tw/opusffi/audiocodec"
	opus "gopkg.in/hraban/opus.v2"
)

// OpusDecoder is the data structure which holds internal values
// for the decoder.
type OpusDecoder struct {
	name    string
	options Options
	decoder *opus.Decoder
}

// NewOpusDecoder is the constructor method for an Opus decoder.
func NewOpusDecoder(opts ...Option) (*OpusDecoder, error) {

	oc := &OpusDecoder{
		name: "opus",
		options: Options{
			Samplerate: 48000,
			Channels:   2,
		},
	}

	for _, option := range opts {
		option(&oc.options)
	}

	decoder, err := opus.NewDecoder(oc.options.Samplerate, oc.options.Channels)
	if err != nil {
		return nil, codecError(err)
	}

	oc.decoder = decoder
	return oc, nil
}

// Name returns the name of the audio codec
func (oc *OpusDecoder) Name() string {
	return oc.name
}

// Options returns a copy of the codec's options
func (oc *OpusDecoder) Options() Options {
	return oc.options
}

// Decode an Opus packet into the supplied []int16 or []float32 buffer. The
// length of the buffer determines the frame size the decoder may produce.
//
// With fec set, the decoder reconstructs the packet preceding data from the
// redundancy carried in data. An empty packet requests packet loss
// concealment for one buffer worth of audio. On success the number of
// samples per channel written into the buffer is returned.
func (oc *OpusDecoder) Decode(data []byte, pcm interface{}, fec bool) (int, error) {
	if oc.decoder == nil {
		return 0, &ac.Error{Code: int32(opus.ErrInvalidState), Description: "opus: decoder closed"}
	}

	var n int
	var err error

	switch v := pcm.(type) {
	case []int16:
		switch {
		case len(data) == 0:
			err = oc.decoder.DecodePLC(v)
			n = len(v) / oc.options.Channels
		case fec:
			err = oc.decoder.DecodeFEC(data, v)
			n = len(v) / oc.options.Channels
		default:
			n, err = oc.decoder.Decode(data, v)
		}
	case []float32:
		switch {
		case len(data) == 0:
			err = oc.decoder.DecodePLCFloat32(v)
			n = len(v) / oc.options.Channels
		case fec:
			err = oc.decoder.DecodeFECFloat32(data, v)
			n = len(v) / oc.options.Channels
		default:
			n, err = oc.decoder.DecodeFloat32(data, v)
		}
	default:
		return 0, &ac.Error{
			Code:        int32(opus.ErrBadArg),
			Description: fmt.Sprintf("can not decode into type %T with opus codec", v),
		}
	}

	if err != nil {
		return 0, codecError(err)
	}
	return n, nil
}

// Close releases the decoder. Subsequent calls to Decode fail with
// OPUS_INVALID_STATE.
func (oc *OpusDecoder) Close() error {
	oc.decoder = nil
	return nil
}
