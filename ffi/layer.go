package ffi

import (
	"unsafe"

	"github.com/dh1tw/opusffi/audiocodec"
	"go.uber.org/zap"
)

// Layer is the boundary between foreign callers and a codec engine. Every
// exported operation returns a plain code and never panics. A Layer keeps
// no per-session state of its own; sessions live behind handles, so one
// Layer serves any number of independent handles concurrently. Calls on
// the same handle must be serialized by the caller.
type Layer struct {
	options Options
	log     *zap.Logger
}

// New returns a Layer. Without options it uses no engine, which makes
// every constructor fail with CodeInternalFault; pass Engine.
func New(opts ...Option) *Layer {

	l := &Layer{
		options: Options{
			Logger: zap.NewNop(),
		},
	}

	for _, option := range opts {
		option(&l.options)
	}

	if l.options.Logger == nil {
		l.options.Logger = zap.NewNop()
	}
	l.log = l.options.Logger

	return l
}

// Options returns a copy of the layer's options
func (l *Layer) Options() Options {
	return l.options
}

func (l *Layer) engine() audiocodec.Engine {
	if l.options.Engine == nil {
		panic("ffi: layer has no codec engine")
	}
	return l.options.Engine
}

// process is the shape shared by the four codec entry points: check the
// required pointers, resolve the session, bind the buffers and run call
// inside the guard. produced is written only on success.
func process[S, I, O any](l *Layer, op string, h Handle,
	in unsafe.Pointer, inLen uint32, out unsafe.Pointer, outCap uint32,
	produced *uintptr, rec *Record, call func(s S, in []I, out []O) (int, error)) int32 {

	if h == 0 || !present(in, out, unsafe.Pointer(produced)) {
		return l.report(op, rec, invalidInput)
	}

	s, ok := resolve[S](h)
	if !ok {
		l.log.Warn("unknown handle",
			zap.String("op", op),
			zap.Uintptr("handle", uintptr(h)))
		return l.report(op, rec, invalidInput)
	}

	return l.guard(op, rec, func() error {
		v := bind[I, O](in, inLen, out, outCap)
		n, err := call(s, v.in, v.out)
		if err != nil {
			return err
		}
		*produced = uintptr(n)
		return nil
	})
}
