package audio

import (
	"github.com/dh1tw/gosamplerate"
	"github.com/pkg/errors"
)

// resampleChunk is the amount of frames handed to libsamplerate at once.
// Upsampling 8kHz to 48kHz stereo must still fit into the converter's
// 65536 sample output buffer.
const resampleChunk = 4096

// Resampler converts audio buffers to a fixed target samplerate. It keeps
// the converter state between calls, so consecutive buffers of a stream
// are joined without clicks.
type Resampler struct {
	gosamplerate.Src
	target     int
	channels   int
	samplerate float64
	ratio      float64
}

// NewResampler returns a Resampler producing target Hz for buffers with
// the given amount of channels.
func NewResampler(target, channels int) (*Resampler, error) {
	srConv, err := gosamplerate.New(gosamplerate.SRC_SINC_FASTEST, channels, 65536)
	if err != nil {
		return nil, errors.Wrap(err, "samplerate converter")
	}
	return &Resampler{
		Src:      srConv,
		target:   target,
		channels: channels,
		ratio:    1,
	}, nil
}

// Process converts msg to the target samplerate. Set endOfInput on the
// last buffer of a stream to flush the converter. Buffers already at the
// target rate are returned unchanged.
func (r *Resampler) Process(msg Msg, endOfInput bool) (Msg, error) {
	if msg.Samplerate == r.target {
		return msg, nil
	}
	if msg.Channels != r.channels {
		return Msg{}, errors.Errorf("resampler expects %d channel(s), got %d",
			r.channels, msg.Channels)
	}

	if r.samplerate != float64(msg.Samplerate) {
		r.Reset()
		r.samplerate = float64(msg.Samplerate)
		r.ratio = float64(r.target) / r.samplerate
	}

	in := ToFloat32(msg.Data)
	out := make([]float32, 0, int(float64(len(in))*r.ratio)+r.channels)
	step := resampleChunk * r.channels

	for start := 0; start < len(in); start += step {
		end := min(start+step, len(in))
		res, err := r.Src.Process(in[start:end], r.ratio, endOfInput && end == len(in))
		if err != nil {
			return Msg{}, errors.Wrap(err, "resample")
		}
		out = append(out, res...)
	}

	return Msg{
		Data:       ToInt16(out),
		Samplerate: r.target,
		Channels:   r.channels,
		Frames:     len(out) / r.channels,
	}, nil
}

// Close releases the converter.
func (r *Resampler) Close() error {
	return gosamplerate.Delete(r.Src)
}

// Resample converts a complete buffer to target Hz.
func Resample(msg Msg, target int) (Msg, error) {
	if msg.Samplerate == target {
		return msg, nil
	}
	if target <= 0 || msg.Samplerate <= 0 {
		return Msg{}, errors.Errorf("can not resample %d Hz to %d Hz", msg.Samplerate, target)
	}

	r, err := NewResampler(target, msg.Channels)
	if err != nil {
		return Msg{}, err
	}
	defer r.Close()

	return r.Process(msg, true)
}
