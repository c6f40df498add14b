package ffi

import (
	"io"
	"unsafe"

	"github.com/dh1tw/opusffi/audiocodec"
	"go.uber.org/zap"
)

type decoderSession struct {
	dec        audiocodec.Decoder
	samplerate int
	channels   audiocodec.Channels
}

func (s *decoderSession) Close() error {
	if c, ok := s.dec.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewDecoder creates a decoder session and stores its handle in result.
// A channel count other than 2 selects mono. On success the caller owns
// the handle and must release it exactly once with FreeDecoder.
func (l *Layer) NewDecoder(channels, samplerate uint32, result *Handle, rec *Record) int32 {
	const op = "new_decoder"

	if result == nil {
		return l.report(op, rec, invalidInput)
	}

	chs := audiocodec.ChannelsFromWire(channels)

	return l.guard(op, rec, func() error {
		dec, err := l.engine().NewDecoder(int(samplerate), chs)
		if err != nil {
			return err
		}
		*result = newHandle(&decoderSession{
			dec:        dec,
			samplerate: int(samplerate),
			channels:   chs,
		})
		l.log.Debug("decoder created",
			zap.Uint32("samplerate", samplerate),
			zap.Stringer("channels", chs),
			zap.Uintptr("handle", uintptr(*result)))
		return nil
	})
}

// Decode decodes inputLen bytes of an Opus packet at input into the int16
// buffer at output, which holds outputCap samples. The samples per channel
// produced are written to decoded. With fec set the engine reconstructs
// the previous, lost packet from redundancy in this one.
//
// On the concealment paths (an empty packet, or fec set) the length of the
// gap is taken from the buffer: the whole output is filled and decoded is
// outputCap / channels. Size the buffer to exactly one lost frame there.
func (l *Layer) Decode(h Handle, input unsafe.Pointer, inputLen uint32,
	output unsafe.Pointer, outputCap uint32, fec bool, decoded *uintptr, rec *Record) int32 {

	return process(l, "decode", h, input, inputLen, output, outputCap, decoded, rec,
		func(s *decoderSession, in []byte, out []int16) (int, error) {
			return s.dec.Decode(in, out, fec)
		})
}

// DecodeFloat is Decode with float32 output samples. The concealment
// paths fill the whole buffer, as with Decode.
func (l *Layer) DecodeFloat(h Handle, input unsafe.Pointer, inputLen uint32,
	output unsafe.Pointer, outputCap uint32, fec bool, decoded *uintptr, rec *Record) int32 {

	return process(l, "decode_float", h, input, inputLen, output, outputCap, decoded, rec,
		func(s *decoderSession, in []byte, out []float32) (int, error) {
			return s.dec.Decode(in, out, fec)
		})
}

// FreeDecoder destroys the session behind h. The null handle is a no-op.
// h must not be used afterwards.
func (l *Layer) FreeDecoder(h Handle) {
	l.contain("free_decoder", func() {
		release[*decoderSession](l, "free_decoder", h)
	})
}
