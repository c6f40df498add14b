package ffi

import (
	"runtime/debug"

	"go.uber.org/zap"
)

// guard runs fn and converts its outcome into a return code. A returned
// error is passed through Fill; a panic is logged and reported as
// CodeInternalFault with a generic message. No panic escapes guard, not
// even one raised while writing rec.
func (l *Layer) guard(op string, rec *Record, fn func() error) (code int32) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		l.log.Error("recovered panic at boundary",
			zap.String("op", op),
			zap.Any("panic", r),
			zap.Stack("stack"))
		code = l.report(op, rec, internalFault)
	}()

	err := fn()
	if err == nil {
		return 0
	}

	code = l.report(op, rec, func(rec *Record) int32 { return Fill(rec, err) })
	l.log.Debug("codec call failed",
		zap.String("op", op),
		zap.Int32("code", code),
		zap.Error(err))
	return code
}

// report runs a record writer. If writing the record panics the record is
// left alone and CodeInternalFault is returned. Faulting memory accesses
// through rec (a pointer into unmapped memory) are turned into panics for
// the duration of the write. A record pointing into mapped memory that is
// not a record can not be detected.
func (l *Layer) report(op string, rec *Record, write func(*Record) int32) (code int32) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("failed to fill error record",
				zap.String("op", op),
				zap.Any("panic", r))
			code = CodeInternalFault
		}
	}()
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	return write(rec)
}

// contain runs fn and swallows any panic. It is used by operations
// without a return code, such as destroying a handle.
func (l *Layer) contain(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("recovered panic at boundary",
				zap.String("op", op),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	fn()
}
