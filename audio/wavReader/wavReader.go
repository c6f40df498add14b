package wavReader

import (
	"io"
	"os"

	"github.com/dh1tw/opusffi/audio"
	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// DefaultFramesPerBuffer is the amount of samples read from the file at once.
const DefaultFramesPerBuffer = 4096

// ReadFile reads a 16 bit wav file from disk into memory.
func ReadFile(path string) (audio.Msg, error) {

	f, err := os.Open(path)
	if err != nil {
		return audio.Msg{}, err
	}
	defer f.Close()

	return Read(f)
}

// Read decodes a complete 16 bit wav stream into a single audio buffer.
func Read(r io.ReadSeeker) (audio.Msg, error) {

	dec := wav.NewDecoder(r)

	if !dec.IsValidFile() {
		return audio.Msg{}, errors.New("invalid WAV file")
	}

	if dec.BitDepth != 16 {
		return audio.Msg{}, errors.Errorf("unsupported bit depth %d (only 16 bit)", dec.BitDepth)
	}

	format := dec.Format()
	msg := audio.Msg{
		Samplerate: format.SampleRate,
		Channels:   format.NumChannels,
	}

	buf := &ga.IntBuffer{
		Data:   make([]int, DefaultFramesPerBuffer),
		Format: format,
	}

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return audio.Msg{}, errors.Wrap(err, "wav read")
		}

		if n == 0 {
			break
		}

		for _, s := range buf.Data[:n] {
			msg.Data = append(msg.Data, int16(s))
		}
	}

	if msg.Channels > 0 {
		msg.Frames = len(msg.Data) / msg.Channels
	}

	return msg, nil
}
