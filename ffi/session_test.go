package ffi

import (
	"testing"
	"unsafe"

	"github.com/dh1tw/opusffi/audiocodec"
)

// fakeEngine records how sessions were constructed and hands out fake
// sessions whose behaviour the tests control.
type fakeEngine struct {
	err         error
	channels    audiocodec.Channels
	samplerate  int
	application audiocodec.Application
	dec         *fakeDecoder
	enc         *fakeEncoder
}

func (e *fakeEngine) NewDecoder(samplerate int, channels audiocodec.Channels) (audiocodec.Decoder, error) {
	e.samplerate, e.channels = samplerate, channels
	if e.err != nil {
		return nil, e.err
	}
	e.dec = &fakeDecoder{produce: 320}
	return e.dec, nil
}

func (e *fakeEngine) NewEncoder(samplerate int, channels audiocodec.Channels, app audiocodec.Application) (audiocodec.Encoder, error) {
	e.samplerate, e.channels, e.application = samplerate, channels, app
	if e.err != nil {
		return nil, e.err
	}
	e.enc = &fakeEncoder{produce: 42}
	return e.enc, nil
}

type fakeDecoder struct {
	produce int
	err     error
	panics  bool
	calls   int
	fec     bool
	inLen   int
	outLen  int
	outType string
	closed  bool
}

func (d *fakeDecoder) Name() string { return "fake" }

func (d *fakeDecoder) Decode(data []byte, pcm interface{}, fec bool) (int, error) {
	d.calls++
	if d.panics {
		panic("decoder state corrupted")
	}
	d.fec, d.inLen = fec, len(data)
	switch v := pcm.(type) {
	case []int16:
		d.outType, d.outLen = "int16", len(v)
	case []float32:
		d.outType, d.outLen = "float32", len(v)
	}
	if d.err != nil {
		return 0, d.err
	}
	return d.produce, nil
}

func (d *fakeDecoder) Close() error {
	d.closed = true
	return nil
}

type fakeEncoder struct {
	produce int
	err     error
	calls   int
	inLen   int
	inType  string
	outLen  int
}

func (e *fakeEncoder) Name() string { return "fake" }

func (e *fakeEncoder) Encode(pcm interface{}, data []byte) (int, error) {
	e.calls++
	switch v := pcm.(type) {
	case []int16:
		e.inType, e.inLen = "int16", len(v)
	case []float32:
		e.inType, e.inLen = "float32", len(v)
	}
	e.outLen = len(data)
	if e.err != nil {
		return 0, e.err
	}
	return e.produce, nil
}

const untouched = uintptr(0xdead)

func newTestLayer(t *testing.T) (*Layer, *fakeEngine, Handle, Handle) {
	t.Helper()

	e := &fakeEngine{}
	l := New(Engine(e))

	var dh, eh Handle
	if code := l.NewDecoder(1, 16000, &dh, nil); code != 0 {
		t.Fatalf("NewDecoder returned %d", code)
	}
	if code := l.NewEncoder(1, 16000, 1, &eh, nil); code != 0 {
		t.Fatalf("NewEncoder returned %d", code)
	}
	t.Cleanup(func() {
		l.FreeDecoder(dh)
		l.FreeEncoder(eh)
	})

	return l, e, dh, eh
}

func TestNullArguments(t *testing.T) {

	l, e, dh, eh := newTestLayer(t)

	in := make([]byte, 8)
	out := make([]byte, 8)
	pin, pout := unsafe.Pointer(&in[0]), unsafe.Pointer(&out[0])

	type call func(h Handle, in, out unsafe.Pointer, produced *uintptr, rec *Record) int32

	ops := map[string]struct {
		h    Handle
		call call
	}{
		"decode": {dh, func(h Handle, in, out unsafe.Pointer, p *uintptr, rec *Record) int32 {
			return l.Decode(h, in, 8, out, 4, false, p, rec)
		}},
		"decode_float": {dh, func(h Handle, in, out unsafe.Pointer, p *uintptr, rec *Record) int32 {
			return l.DecodeFloat(h, in, 8, out, 2, false, p, rec)
		}},
		"encode": {eh, func(h Handle, in, out unsafe.Pointer, p *uintptr, rec *Record) int32 {
			return l.Encode(h, in, 4, out, 8, p, rec)
		}},
		"encode_float": {eh, func(h Handle, in, out unsafe.Pointer, p *uintptr, rec *Record) int32 {
			return l.EncodeFloat(h, in, 2, out, 8, p, rec)
		}},
	}

	for name, op := range ops {
		for _, missing := range []string{"handle", "input", "output", "produced"} {
			t.Run(name+"/"+missing, func(t *testing.T) {
				h, pi, po := op.h, pin, pout
				produced := untouched
				pp := &produced

				switch missing {
				case "handle":
					h = 0
				case "input":
					pi = nil
				case "output":
					po = nil
				case "produced":
					pp = nil
				}

				var rec Record
				code := op.call(h, pi, po, pp, &rec)
				defer ReleaseMessage(&rec.Message)

				if code != CodeInvalidInput {
					t.Fatalf("got code %d, want %d", code, CodeInvalidInput)
				}
				if rec.Code != CodeInvalidInput || rec.Text() != msgInvalidInput {
					t.Fatalf("record not filled: code %d, message %q", rec.Code, rec.Text())
				}
				if produced != untouched {
					t.Fatalf("out-parameter modified to %d", produced)
				}
			})
		}
	}

	if e.dec.calls != 0 || e.enc.calls != 0 {
		t.Fatalf("engine called despite invalid input (%d decode, %d encode)",
			e.dec.calls, e.enc.calls)
	}
}

func TestNilResultSlot(t *testing.T) {

	e := &fakeEngine{}
	l := New(Engine(e))

	if code := l.NewDecoder(1, 16000, nil, nil); code != CodeInvalidInput {
		t.Fatalf("NewDecoder: got code %d, want %d", code, CodeInvalidInput)
	}
	if code := l.NewEncoder(1, 16000, 1, nil, nil); code != CodeInvalidInput {
		t.Fatalf("NewEncoder: got code %d, want %d", code, CodeInvalidInput)
	}
	if e.samplerate != 0 {
		t.Fatal("engine called despite invalid input")
	}
}

func TestFreeNullHandle(t *testing.T) {
	l := New()
	l.FreeDecoder(0)
	l.FreeEncoder(0)
}

func TestUnrecognizedEnumsFallBack(t *testing.T) {

	e := &fakeEngine{}
	l := New(Engine(e))

	var h Handle
	if code := l.NewDecoder(3, 16000, &h, nil); code != 0 {
		t.Fatalf("got code %d, want 0", code)
	}
	l.FreeDecoder(h)
	if e.channels != audiocodec.Mono {
		t.Fatalf("3 channels mapped to %v, want mono", e.channels)
	}

	if code := l.NewEncoder(2, 48000, 99, &h, nil); code != 0 {
		t.Fatalf("got code %d, want 0", code)
	}
	l.FreeEncoder(h)
	if e.channels != audiocodec.Stereo || e.application != audiocodec.AppVoIP {
		t.Fatalf("got %v/%v, want stereo/voip", e.channels, e.application)
	}
	if e.samplerate != 48000 {
		t.Fatalf("samplerate %d not forwarded", e.samplerate)
	}
}

func TestConstructorDomainError(t *testing.T) {

	e := &fakeEngine{err: &audiocodec.Error{Code: -1, Description: "invalid argument"}}
	l := New(Engine(e))

	h := Handle(0)
	var rec Record
	code := l.NewDecoder(1, 44100, &h, &rec)
	defer ReleaseMessage(&rec.Message)

	if code != -1 || rec.Code != -1 {
		t.Fatalf("got code %d / record code %d, want -1", code, rec.Code)
	}
	if rec.Text() != "invalid argument" {
		t.Fatalf("got message %q", rec.Text())
	}
	if h != 0 {
		t.Fatal("handle written on failure")
	}
}

func TestLayerWithoutEngine(t *testing.T) {

	var h Handle
	if code := New().NewDecoder(1, 16000, &h, nil); code != CodeInternalFault {
		t.Fatalf("got code %d, want %d", code, CodeInternalFault)
	}
}

func TestDecodeForwardsViewsAndFlags(t *testing.T) {

	l, e, dh, _ := newTestLayer(t)

	in := make([]byte, 10)
	out16 := make([]int16, 640)
	var n uintptr

	code := l.Decode(dh, unsafe.Pointer(&in[0]), 10, unsafe.Pointer(&out16[0]), 320, true, &n, nil)
	if code != 0 {
		t.Fatalf("got code %d, want 0", code)
	}
	if n != 320 {
		t.Fatalf("decoded %d, want 320", n)
	}
	if !e.dec.fec || e.dec.inLen != 10 || e.dec.outLen != 320 || e.dec.outType != "int16" {
		t.Fatalf("engine saw fec=%v in=%d out=%d (%s)",
			e.dec.fec, e.dec.inLen, e.dec.outLen, e.dec.outType)
	}

	outF := make([]float32, 320)
	code = l.DecodeFloat(dh, unsafe.Pointer(&in[0]), 3, unsafe.Pointer(&outF[0]), 160, false, &n, nil)
	if code != 0 {
		t.Fatalf("got code %d, want 0", code)
	}
	if e.dec.fec || e.dec.inLen != 3 || e.dec.outLen != 160 || e.dec.outType != "float32" {
		t.Fatalf("engine saw fec=%v in=%d out=%d (%s)",
			e.dec.fec, e.dec.inLen, e.dec.outLen, e.dec.outType)
	}
}

func TestEncodeForwardsViews(t *testing.T) {

	l, e, _, eh := newTestLayer(t)

	in16 := make([]int16, 320)
	inF := make([]float32, 320)
	out := make([]byte, 4000)
	var n uintptr

	if code := l.Encode(eh, unsafe.Pointer(&in16[0]), 320, unsafe.Pointer(&out[0]), 4000, &n, nil); code != 0 {
		t.Fatalf("got code %d, want 0", code)
	}
	if n != 42 || e.enc.inLen != 320 || e.enc.inType != "int16" || e.enc.outLen != 4000 {
		t.Fatalf("encoded %d, engine saw in=%d (%s) out=%d", n, e.enc.inLen, e.enc.inType, e.enc.outLen)
	}

	if code := l.EncodeFloat(eh, unsafe.Pointer(&inF[0]), 160, unsafe.Pointer(&out[0]), 100, &n, nil); code != 0 {
		t.Fatalf("got code %d, want 0", code)
	}
	if e.enc.inLen != 160 || e.enc.inType != "float32" || e.enc.outLen != 100 {
		t.Fatalf("engine saw in=%d (%s) out=%d", e.enc.inLen, e.enc.inType, e.enc.outLen)
	}
}

func TestDomainErrorLeavesOutParameter(t *testing.T) {

	l, e, _, eh := newTestLayer(t)
	e.enc.err = &audiocodec.Error{Code: -2, Description: "buffer too small"}

	in := make([]int16, 320)
	out := make([]byte, 1)
	n := untouched
	var rec Record

	code := l.Encode(eh, unsafe.Pointer(&in[0]), 320, unsafe.Pointer(&out[0]), 1, &n, &rec)
	defer ReleaseMessage(&rec.Message)

	if code != -2 || rec.Code != -2 {
		t.Fatalf("got code %d / record code %d, want -2", code, rec.Code)
	}
	if rec.Text() != "buffer too small" {
		t.Fatalf("got message %q", rec.Text())
	}
	if n != untouched {
		t.Fatal("out-parameter written on failure")
	}
}

func TestPanicInEngine(t *testing.T) {

	l, e, dh, _ := newTestLayer(t)
	e.dec.panics = true

	in := make([]byte, 10)
	out := make([]int16, 320)
	n := untouched
	var rec Record

	code := l.Decode(dh, unsafe.Pointer(&in[0]), 10, unsafe.Pointer(&out[0]), 320, false, &n, &rec)
	defer ReleaseMessage(&rec.Message)

	if code != CodeInternalFault {
		t.Fatalf("got code %d, want %d", code, CodeInternalFault)
	}
	if rec.Text() != msgInternalFault {
		t.Fatalf("got message %q", rec.Text())
	}
	if n != untouched {
		t.Fatal("out-parameter written on failure")
	}

	// the handle survives the fault
	e.dec.panics = false
	if code := l.Decode(dh, unsafe.Pointer(&in[0]), 10, unsafe.Pointer(&out[0]), 320, false, &n, nil); code != 0 {
		t.Fatalf("decode after fault returned %d", code)
	}
}

func TestWrongKindHandle(t *testing.T) {

	l, e, dh, eh := newTestLayer(t)

	in := make([]byte, 10)
	out := make([]int16, 320)
	var n uintptr

	if code := l.Decode(eh, unsafe.Pointer(&in[0]), 10, unsafe.Pointer(&out[0]), 320, false, &n, nil); code != CodeInvalidInput {
		t.Fatalf("decode with an encoder handle: got %d, want %d", code, CodeInvalidInput)
	}
	if code := l.Encode(dh, unsafe.Pointer(&out[0]), 320, unsafe.Pointer(&in[0]), 10, &n, nil); code != CodeInvalidInput {
		t.Fatalf("encode with a decoder handle: got %d, want %d", code, CodeInvalidInput)
	}

	// freeing through the wrong destroy function leaves the handle alive
	l.FreeDecoder(eh)
	if code := l.Encode(eh, unsafe.Pointer(&out[0]), 320, unsafe.Pointer(&in[0]), 10, &n, nil); code != 0 {
		t.Fatalf("encoder unusable after wrong-kind free: %d", code)
	}
	if e.dec.closed {
		t.Fatal("decoder closed by an unrelated free")
	}
}

func TestStaleHandle(t *testing.T) {

	e := &fakeEngine{}
	l := New(Engine(e))

	var h Handle
	if code := l.NewDecoder(1, 16000, &h, nil); code != 0 {
		t.Fatalf("got code %d", code)
	}
	l.FreeDecoder(h)
	if !e.dec.closed {
		t.Fatal("session not closed on free")
	}

	in := make([]byte, 10)
	out := make([]int16, 320)
	var n uintptr
	if code := l.Decode(h, unsafe.Pointer(&in[0]), 10, unsafe.Pointer(&out[0]), 320, false, &n, nil); code != CodeInvalidInput {
		t.Fatalf("got code %d, want %d", code, CodeInvalidInput)
	}

	// double free is contained
	l.FreeDecoder(h)
}

func TestSeparateHandlesConcurrently(t *testing.T) {

	e := &fakeEngine{}
	l := New(Engine(e))

	const workers = 8
	done := make(chan int32, workers)

	for i := 0; i < workers; i++ {
		var h Handle
		if code := l.NewEncoder(1, 16000, 1, &h, nil); code != 0 {
			t.Fatalf("got code %d", code)
		}
		go func(h Handle) {
			defer l.FreeEncoder(h)
			in := make([]int16, 320)
			out := make([]byte, 100)
			var n uintptr
			var code int32
			for j := 0; j < 100 && code == 0; j++ {
				code = l.Encode(h, unsafe.Pointer(&in[0]), 320, unsafe.Pointer(&out[0]), 100, &n, nil)
			}
			done <- code
		}(h)
	}

	for i := 0; i < workers; i++ {
		if code := <-done; code != 0 {
			t.Fatalf("worker failed with %d", code)
		}
	}
}
