package ffi

/*
#include <stdlib.h>
#include <string.h>

typedef struct OpusError {
	int code;
	char *message;
} OpusError;

// ffi_strndup copies n bytes into a NUL terminated string owned by the C
// allocator. It returns NULL when malloc fails.
static char *ffi_strndup(const char *s, size_t n) {
	char *p = malloc(n + 1);
	if (p == NULL) {
		return NULL;
	}
	if (n > 0) {
		memcpy(p, s, n);
	}
	p[n] = '\0';
	return p;
}

static OpusError *ffi_new_record(void) {
	return calloc(1, sizeof(OpusError));
}
*/
import "C"

import (
	"strings"
	"unsafe"

	"github.com/dh1tw/opusffi/audiocodec"
	"github.com/pkg/errors"
)

// Return codes owned by this layer. They sit below UnknownBase so they
// can never collide with a code reported by the codec engine.
const (
	UnknownBase       = audiocodec.CodeUnknown
	CodeInvalidInput  = UnknownBase - 1
	CodeInternalFault = UnknownBase - 2
)

const (
	msgInvalidInput  = "Invalid input"
	msgInternalFault = "internal panic occurred"
)

var errInteriorNUL = errors.New("message contains a NUL byte")

// Record mirrors the C struct OpusError. Message is either nil or a NUL
// terminated string allocated with the C allocator; whoever holds the
// record owns it and releases it with ReleaseMessage (record on the
// caller's stack) or ReleaseRecord (record obtained from NewRecord).
type Record struct {
	Code    int32
	Message unsafe.Pointer
}

// Record must stay layout compatible with OpusError.
var (
	_ [unsafe.Sizeof(Record{}) - unsafe.Sizeof(C.OpusError{})]struct{}
	_ [unsafe.Sizeof(C.OpusError{}) - unsafe.Sizeof(Record{})]struct{}
	_ [unsafe.Offsetof(Record{}.Message) - unsafe.Offsetof(C.OpusError{}.message)]struct{}
	_ [unsafe.Offsetof(C.OpusError{}.message) - unsafe.Offsetof(Record{}.Message)]struct{}
)

// Text returns a copy of the record's message, or "" if there is none.
func (r *Record) Text() string {
	if r == nil || r.Message == nil {
		return ""
	}
	return C.GoString((*C.char)(r.Message))
}

// Fill converts err into its wire representation. If rec is non-nil the
// code and a newly allocated message are written into it. The code is
// returned either way. Errors that are not *audiocodec.Error are reported
// with UnknownBase.
func Fill(rec *Record, err error) int32 {
	code, msg := UnknownBase, err.Error()

	var ce *audiocodec.Error
	if errors.As(err, &ce) {
		code = ce.Code
	}

	return set(rec, code, msg)
}

// set writes code and msg into rec. When the message cannot be built the
// record reports CodeInternalFault instead, so a failed fill never goes
// unnoticed. The code is stored before the message is allocated; if rec
// is not writable nothing is leaked.
func set(rec *Record, code int32, msg string) int32 {
	if rec == nil {
		return code
	}
	rec.Code = code

	p, err := newCString(msg)
	if err != nil {
		code = CodeInternalFault
		p, _ = newCString(msgInternalFault)
	}

	rec.Code = code
	rec.Message = p
	return code
}

func invalidInput(rec *Record) int32 {
	return set(rec, CodeInvalidInput, msgInvalidInput)
}

func internalFault(rec *Record) int32 {
	return set(rec, CodeInternalFault, msgInternalFault)
}

// newCString copies s into memory owned by the C allocator.
func newCString(s string) (unsafe.Pointer, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, errInteriorNUL
	}

	p := C.ffi_strndup((*C.char)(unsafe.Pointer(unsafe.StringData(s))), C.size_t(len(s)))
	if p == nil {
		return nil, errors.New("out of memory")
	}
	return unsafe.Pointer(p), nil
}

// ReleaseMessage frees the string *slot points to and sets *slot to nil.
// A nil slot or a nil string is a no-op. The string must have been
// allocated by this package.
func ReleaseMessage(slot *unsafe.Pointer) {
	if slot == nil || *slot == nil {
		return
	}
	C.free(*slot)
	*slot = nil
}

// NewRecord allocates a zeroed record with the C allocator. It returns nil
// if the allocation fails. The record and its message are released
// together with ReleaseRecord.
func NewRecord() *Record {
	return (*Record)(unsafe.Pointer(C.ffi_new_record()))
}

// ReleaseRecord frees a record obtained from NewRecord including its
// message. Records living on the caller's stack must not be passed here;
// release their message with ReleaseMessage instead.
func ReleaseRecord(r *Record) {
	if r == nil {
		return
	}
	ReleaseMessage(&r.Message)
	C.free(unsafe.Pointer(r))
}
