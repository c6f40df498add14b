package ffi

import (
	"io"
	"unsafe"

	"github.com/dh1tw/opusffi/audiocodec"
	"go.uber.org/zap"
)

type encoderSession struct {
	enc         audiocodec.Encoder
	samplerate  int
	channels    audiocodec.Channels
	application audiocodec.Application
}

func (s *encoderSession) Close() error {
	if c, ok := s.enc.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewEncoder creates an encoder session and stores its handle in result.
// A channel count other than 2 selects mono, an application other than
// 2 (audio) or 3 (low delay) selects voip. On success the caller owns the
// handle and must release it exactly once with FreeEncoder.
func (l *Layer) NewEncoder(channels, samplerate, application uint32, result *Handle, rec *Record) int32 {
	const op = "new_encoder"

	if result == nil {
		return l.report(op, rec, invalidInput)
	}

	chs := audiocodec.ChannelsFromWire(channels)
	app := audiocodec.ApplicationFromWire(application)

	return l.guard(op, rec, func() error {
		enc, err := l.engine().NewEncoder(int(samplerate), chs, app)
		if err != nil {
			return err
		}
		*result = newHandle(&encoderSession{
			enc:         enc,
			samplerate:  int(samplerate),
			channels:    chs,
			application: app,
		})
		l.log.Debug("encoder created",
			zap.Uint32("samplerate", samplerate),
			zap.Stringer("channels", chs),
			zap.Stringer("application", app),
			zap.Uintptr("handle", uintptr(*result)))
		return nil
	})
}

// Encode encodes inputLen interleaved int16 samples at input into the
// buffer at output, which holds outputCap bytes. The packet length is
// written to encoded.
func (l *Layer) Encode(h Handle, input unsafe.Pointer, inputLen uint32,
	output unsafe.Pointer, outputCap uint32, encoded *uintptr, rec *Record) int32 {

	return process(l, "encode", h, input, inputLen, output, outputCap, encoded, rec,
		func(s *encoderSession, in []int16, out []byte) (int, error) {
			return s.enc.Encode(in, out)
		})
}

// EncodeFloat is Encode with float32 input samples.
func (l *Layer) EncodeFloat(h Handle, input unsafe.Pointer, inputLen uint32,
	output unsafe.Pointer, outputCap uint32, encoded *uintptr, rec *Record) int32 {

	return process(l, "encode_float", h, input, inputLen, output, outputCap, encoded, rec,
		func(s *encoderSession, in []float32, out []byte) (int, error) {
			return s.enc.Encode(in, out)
		})
}

// FreeEncoder destroys the session behind h. The null handle is a no-op.
// h must not be used afterwards.
func (l *Layer) FreeEncoder(h Handle) {
	l.contain("free_encoder", func() {
		release[*encoderSession](l, "free_encoder", h)
	})
}
