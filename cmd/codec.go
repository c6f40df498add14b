package cmd

import (
	"unsafe"

	"github.com/dh1tw/opusffi/audiocodec"
	"github.com/dh1tw/opusffi/audiocodec/opus"
	"github.com/dh1tw/opusffi/config"
	"github.com/dh1tw/opusffi/ffi"
	"go.uber.org/zap"
)

// newLayer builds the codec layer the same way the C library does, from
// already validated settings.
func newLayer(s config.Settings) (*ffi.Layer, *zap.Logger, error) {

	log, err := s.Log.Logger()
	if err != nil {
		return nil, nil, err
	}

	encOpts, err := s.Opus.EncoderOptions()
	if err != nil {
		return nil, nil, err
	}

	l := ffi.New(
		ffi.Engine(opus.NewEngine(encOpts...)),
		ffi.Logger(log.Named("opusffi")),
	)
	return l, log, nil
}

// check turns a failed layer call into an error carrying the code and the
// message of the record. The record's message is released.
func check(code int32, rec *ffi.Record) error {
	if code == 0 {
		return nil
	}
	defer ffi.ReleaseMessage(&rec.Message)
	return &audiocodec.Error{Code: code, Description: rec.Text()}
}

// decoder drives a decoder handle of the layer with Go slices, exactly
// like a foreign caller would with its own buffers.
type decoder struct {
	layer    *ffi.Layer
	h        ffi.Handle
	channels int
}

func newDecoder(l *ffi.Layer, channels, samplerate int) (*decoder, error) {
	var rec ffi.Record
	d := &decoder{layer: l, channels: channels}
	if err := check(l.NewDecoder(uint32(channels), uint32(samplerate), &d.h, &rec), &rec); err != nil {
		return nil, err
	}
	return d, nil
}

// decode decodes pkt into pcm and returns the samples per channel. An
// empty pkt conceals a lost packet.
func (d *decoder) decode(pkt []byte, pcm []int16, fec bool) (int, error) {
	var rec ffi.Record
	var n uintptr
	code := d.layer.Decode(d.h, bytesPtr(pkt), uint32(len(pkt)),
		unsafe.Pointer(unsafe.SliceData(pcm)), uint32(len(pcm)), fec, &n, &rec)
	return int(n), check(code, &rec)
}

func (d *decoder) decodeFloat(pkt []byte, pcm []float32, fec bool) (int, error) {
	var rec ffi.Record
	var n uintptr
	code := d.layer.DecodeFloat(d.h, bytesPtr(pkt), uint32(len(pkt)),
		unsafe.Pointer(unsafe.SliceData(pcm)), uint32(len(pcm)), fec, &n, &rec)
	return int(n), check(code, &rec)
}

func (d *decoder) close() {
	d.layer.FreeDecoder(d.h)
	d.h = 0
}

type encoder struct {
	layer *ffi.Layer
	h     ffi.Handle
}

func newEncoder(l *ffi.Layer, channels, samplerate int, app audiocodec.Application) (*encoder, error) {
	var rec ffi.Record
	e := &encoder{layer: l}
	code := l.NewEncoder(uint32(channels), uint32(samplerate), uint32(app), &e.h, &rec)
	if err := check(code, &rec); err != nil {
		return nil, err
	}
	return e, nil
}

// encode encodes one frame of interleaved samples into pkt and returns
// the packet length.
func (e *encoder) encode(pcm []int16, pkt []byte) (int, error) {
	var rec ffi.Record
	var n uintptr
	code := e.layer.Encode(e.h, unsafe.Pointer(unsafe.SliceData(pcm)), uint32(len(pcm)),
		unsafe.Pointer(unsafe.SliceData(pkt)), uint32(len(pkt)), &n, &rec)
	return int(n), check(code, &rec)
}

func (e *encoder) encodeFloat(pcm []float32, pkt []byte) (int, error) {
	var rec ffi.Record
	var n uintptr
	code := e.layer.EncodeFloat(e.h, unsafe.Pointer(unsafe.SliceData(pcm)), uint32(len(pcm)),
		unsafe.Pointer(unsafe.SliceData(pkt)), uint32(len(pkt)), &n, &rec)
	return int(n), check(code, &rec)
}

func (e *encoder) close() {
	e.layer.FreeEncoder(e.h)
	e.h = 0
}

// bytesPtr returns a non-nil pointer for an empty packet; the layer
// rejects nil buffers but accepts a zero length.
func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return unsafe.Pointer(&emptyPacket)
	}
	return unsafe.Pointer(unsafe.SliceData(b))
}

var emptyPacket byte

// maxPacketSize is the largest packet the tool produces or accepts.
const maxPacketSize = 4000
