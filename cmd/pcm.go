package cmd

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dh1tw/opusffi/audio"
	"github.com/dh1tw/opusffi/audio/wavReader"
	"github.com/dh1tw/opusffi/audio/wavWriter"
	"github.com/pkg/errors"
)

func isWav(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// readPCM loads a wav file or a raw s16le file. For raw files samplerate
// and channels describe the content. Wav files carry their own format;
// they are resampled to samplerate if necessary and must be mono or
// stereo.
func readPCM(path string, samplerate, channels int) (audio.Msg, error) {

	if isWav(path) {
		msg, err := wavReader.ReadFile(path)
		if err != nil {
			return audio.Msg{}, err
		}
		if err := checkChannels(msg.Channels); err != nil {
			return audio.Msg{}, errors.Wrap(err, path)
		}
		return audio.Resample(msg, samplerate)
	}

	if err := checkChannels(channels); err != nil {
		return audio.Msg{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return audio.Msg{}, err
	}
	if len(raw)%2 != 0 {
		return audio.Msg{}, errors.Errorf("%s: odd length for s16le PCM", path)
	}

	msg := audio.Msg{
		Data:       make([]int16, len(raw)/2),
		Samplerate: samplerate,
		Channels:   channels,
	}
	for i := range msg.Data {
		msg.Data[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	msg.Frames = len(msg.Data) / channels

	return msg, nil
}

// pcmSink writes decoded audio either into a wav file or as raw s16le.
type pcmSink interface {
	Write(audio.Msg) error
	Close() error
}

func newPCMSink(path string, samplerate, channels int) (pcmSink, error) {
	if isWav(path) {
		return wavWriter.NewWavWriter(path,
			wavWriter.Samplerate(samplerate),
			wavWriter.Channels(channels))
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &rawSink{f: f, w: bufio.NewWriter(f)}, nil
}

type rawSink struct {
	f *os.File
	w *bufio.Writer
}

func (r *rawSink) Write(msg audio.Msg) error {
	return binary.Write(r.w, binary.LittleEndian, msg.Data)
}

func (r *rawSink) Close() error {
	err := r.w.Flush()
	if cErr := r.f.Close(); err == nil {
		err = cErr
	}
	return err
}

// packetReader splits a packet file. With framed set every packet carries
// a 2 byte big endian length prefix, otherwise the file is cut into
// chunks of size bytes.
type packetReader struct {
	r      *bufio.Reader
	framed bool
	size   int
}

func (p *packetReader) next(buf []byte) ([]byte, error) {
	n := p.size
	if p.framed {
		var l uint16
		if err := binary.Read(p.r, binary.BigEndian, &l); err != nil {
			return nil, err
		}
		n = int(l)
	}
	if n > len(buf) {
		return nil, errors.Errorf("packet of %d bytes exceeds %d bytes", n, len(buf))
	}

	m, err := io.ReadFull(p.r, buf[:n])
	if err == io.ErrUnexpectedEOF && !p.framed {
		// last, short chunk
		return buf[:m], nil
	}
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errors.New("truncated packet")
		}
		return nil, err
	}
	return buf[:n], nil
}

func writePacket(w io.Writer, pkt []byte, framed bool) error {
	if framed {
		if err := binary.Write(w, binary.BigEndian, uint16(len(pkt))); err != nil {
			return err
		}
	}
	_, err := w.Write(pkt)
	return err
}
