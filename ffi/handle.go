package ffi

import (
	"io"
	"runtime/cgo"

	"go.uber.org/zap"
)

// Handle is the opaque token a foreign caller holds for a codec session.
// Go memory must not be retained by C, so the token indexes the runtime's
// handle table instead of pointing at the session. The zero Handle is the
// null handle.
type Handle uintptr

// newHandle moves v behind a new Handle. Ownership of v passes to the
// holder of the handle until release is called.
func newHandle(v any) Handle {
	return Handle(cgo.NewHandle(v))
}

// resolve returns the session behind h. It reports false for the null
// handle, a released or unknown handle and a handle of a different kind.
func resolve[T any](h Handle) (v T, ok bool) {
	if h == 0 {
		return v, false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	v, ok = cgo.Handle(h).Value().(T)
	return v, ok
}

// release invalidates h and closes the session behind it. It reports
// false, and leaves h alone, if h is not a live handle of kind T. The null
// handle is a no-op.
func release[T any](l *Layer, op string, h Handle) bool {
	if h == 0 {
		return true
	}

	s, ok := resolve[T](h)
	if !ok {
		l.log.Warn("release of an invalid handle ignored",
			zap.String("op", op),
			zap.Uintptr("handle", uintptr(h)))
		return false
	}

	cgo.Handle(h).Delete()

	if c, ok := any(s).(io.Closer); ok {
		if err := c.Close(); err != nil {
			l.log.Warn("closing session failed",
				zap.String("op", op),
				zap.Error(err))
		}
	}
	return true
}
