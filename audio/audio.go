// Package audio contains the PCM buffers and helpers the opusffi command
// line tool feeds through the codec.
package audio

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Msg contains an interleaved 16 bit audio buffer with its metadata
type Msg struct {
	Data       []int16
	Samplerate int
	Channels   int
	Frames     int // samples per channel
}

// Frame returns the samples of frame i (frameSize samples per channel)
// and whether it is complete. The last frame of a buffer may be short;
// callers usually zero pad it.
func (m Msg) Frame(i, frameSize int) ([]int16, bool) {
	start := i * frameSize * m.Channels
	end := start + frameSize*m.Channels
	if start >= len(m.Data) {
		return nil, false
	}
	if end > len(m.Data) {
		return m.Data[start:], false
	}
	return m.Data[start:end], true
}

// Silence returns d seconds of digital silence.
func Silence(samplerate, channels int, d float32) Msg {
	frames := int(float32(samplerate) * d)
	return Msg{
		Data:       make([]int16, frames*channels),
		Samplerate: samplerate,
		Channels:   channels,
		Frames:     frames,
	}
}

// Sine returns d seconds of a sine tone of freq Hz at the given amplitude
// (0...1). All channels carry the same signal.
func Sine(freq float32, amplitude float32, samplerate, channels int, d float32) (Msg, error) {
	if freq <= 0 || freq >= float32(samplerate)/2 {
		return Msg{}, errors.Errorf("frequency %v Hz not in (0, %v)", freq, samplerate/2)
	}
	if channels < 1 || channels > 2 {
		return Msg{}, errors.Errorf("unsupported channel count %d", channels)
	}

	frames := int(float32(samplerate) * d)
	data := make([]float32, 0, frames*channels)
	for i := 0; i < frames; i++ {
		v := amplitude * math32.Sin(2*math32.Pi*freq*float32(i)/float32(samplerate))
		for ch := 0; ch < channels; ch++ {
			data = append(data, v)
		}
	}

	return Msg{
		Data:       ToInt16(data),
		Samplerate: samplerate,
		Channels:   channels,
		Frames:     frames,
	}, nil
}

// Scaled returns a copy of m with every sample multiplied by volume
// (clamped to 0...1).
func (m Msg) Scaled(volume float32) Msg {
	f := ToFloat32(m.Data)
	AdjustVolume(volume, f)
	m.Data = ToInt16(f)
	return m
}
