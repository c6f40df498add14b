package wavWriter

import (
	"io"
	"os"
	"sync"

	"github.com/dh1tw/opusffi/audio"
	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// WavWriter writes (records) audio buffers as 16 bit PCM in the wav format.
type WavWriter struct {
	sync.Mutex
	file    io.WriteSeeker
	closer  io.Closer
	encoder *wav.Encoder
	options Options
	frames  int
	src     *audio.Resampler
}

// NewWavWriter creates the file at path and returns a WavWriter to which
// audio buffers can be written.
func NewWavWriter(path string, opts ...Option) (*WavWriter, error) {

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w, err := New(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// New returns a WavWriter writing into ws. Close finalizes the header but
// does not close ws.
func New(ws io.WriteSeeker, opts ...Option) (*WavWriter, error) {

	w := &WavWriter{
		options: Options{
			Channels:   DefaultChannels,
			Samplerate: DefaultSamplerate,
		},
		file: ws,
	}

	for _, o := range opts {
		o(&w.options)
	}

	// setup a samplerate converter
	src, err := audio.NewResampler(w.options.Samplerate, w.options.Channels)
	if err != nil {
		return nil, errors.Wrap(err, "WavWriter")
	}
	w.src = src

	w.encoder = wav.NewEncoder(ws, w.options.Samplerate,
		BitDepth, w.options.Channels, 1)

	return w, nil
}

// Close writes the wav header and closes the underlying file, if it was
// opened by NewWavWriter.
func (w *WavWriter) Close() error {
	w.Lock()
	defer w.Unlock()

	err := w.encoder.Close()
	w.src.Close()
	if w.closer != nil {
		if cErr := w.closer.Close(); err == nil {
			err = cErr
		}
	}
	return err
}

// Frames returns the amount of frames (samples per channel) written so far.
func (w *WavWriter) Frames() int {
	w.Lock()
	defer w.Unlock()
	return w.frames
}

// Write appends an audio buffer to the file. Channels and Samplerate will
// be adjusted, if necessary.
func (w *WavWriter) Write(msg audio.Msg) error {

	w.Lock()
	defer w.Unlock()

	// if necessary adjust the amount of audio channels
	if msg.Channels != w.options.Channels {
		msg.Data = audio.AdjustChannels(msg.Channels, w.options.Channels, msg.Data)
		msg.Channels = w.options.Channels
	}

	msg, err := w.src.Process(msg, false)
	if err != nil {
		return err
	}
	data := msg.Data

	buf := ga.IntBuffer{
		Format: &ga.Format{
			SampleRate:  w.options.Samplerate,
			NumChannels: w.options.Channels,
		},
		Data:           make([]int, len(data)),
		SourceBitDepth: BitDepth,
	}

	for i, s := range data {
		buf.Data[i] = int(s)
	}

	if err := w.encoder.Write(&buf); err != nil {
		return errors.Wrap(err, "wav write")
	}
	w.frames += len(data) / w.options.Channels

	return nil
}
