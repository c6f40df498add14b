package opus

import (
	"fmt"

	ac "github.com/dh1tw/opusffi/audiocodec"
	"github.com/pkg/errors"
	opus "gopkg.in/hraban/opus.v2"
)

//OpusEncoder is the data structure for the opus encoder. This struct hold
//the internal values of the encoder.
type OpusEncoder struct {
	name    string
	options Options
	encoder *opus.Encoder
}

// NewOpusEncoder is the constructor method for an Opus encoder.
func NewOpusEncoder(opts ...Option) (*OpusEncoder, error) {

	oEnc := &OpusEncoder{
		name: "opus",
		options: Options{
			Samplerate:  48000,
			Channels:    1,
			Application: opus.AppVoIP,
			Complexity:  -1,
		},
	}

	for _, option := range opts {
		option(&oEnc.options)
	}

	encoder, err := opus.NewEncoder(oEnc.options.Samplerate,
		oEnc.options.Channels,
		oEnc.options.Application)

	if err != nil {
		return nil, codecError(err)
	}

	if err := configure(encoder, oEnc.options); err != nil {
		return nil, err
	}

	oEnc.encoder = encoder
	return oEnc, nil
}

// configure applies the optional encoder tuning. Unset values keep the
// libopus defaults.
func configure(enc *opus.Encoder, o Options) error {

	if o.Bitrate > 0 {
		if err := enc.SetBitrate(o.Bitrate); err != nil {
			return codecError(errors.Wrap(err, "set bitrate"))
		}
	}

	if o.Complexity >= 0 {
		if err := enc.SetComplexity(o.Complexity); err != nil {
			return codecError(errors.Wrap(err, "set complexity"))
		}
	}

	if o.MaxBandwidth != 0 {
		if err := enc.SetMaxBandwidth(o.MaxBandwidth); err != nil {
			return codecError(errors.Wrap(err, "set max bandwidth"))
		}
	}

	if o.InbandFEC {
		if err := enc.SetInBandFEC(true); err != nil {
			return codecError(errors.Wrap(err, "enable inband fec"))
		}
	}

	if o.PacketLossPerc > 0 {
		if err := enc.SetPacketLossPerc(o.PacketLossPerc); err != nil {
			return codecError(errors.Wrap(err, "set packet loss percentage"))
		}
	}

	return nil
}

// Name returns the name of the audio codec
func (oEnc *OpusEncoder) Name() string {
	return oEnc.name
}

// Options returns a copy of the codec's options
func (oEnc *OpusEncoder) Options() Options {
	return oEnc.options
}

// Encode either []float32 or []int16 with the opus codec into the supplied
// buffer. The amount of samples must form a valid Opus frame (2.5, 5, 10,
// 20, 40 or 60ms). On success the amount of bytes written into the buffer
// will be returned.
func (oEnc *OpusEncoder) Encode(pcm interface{}, data []byte) (int, error) {
	if oEnc.encoder == nil {
		return 0, &ac.Error{Code: int32(opus.ErrInvalidState), Description: "opus: encoder closed"}
	}

	var n int
	var err error

	switch v := pcm.(type) {
	case []float32:
		n, err = oEnc.encoder.EncodeFloat32(v, data)
	case []int16:
		n, err = oEnc.encoder.Encode(v, data)
	default:
		return 0, &ac.Error{
			Code:        int32(opus.ErrBadArg),
			Description: fmt.Sprintf("can not encode type %T with opus codec", v),
		}
	}

	if err != nil {
		return 0, codecError(err)
	}
	return n, nil
}

// Close releases the encoder. Subsequent calls to Encode fail with
// OPUS_INVALID_STATE.
func (oEnc *OpusEncoder) Close() error {
	oEnc.encoder = nil
	return nil
}
