package ffi

import "unsafe"

// views are the caller's buffers bound for a single codec call. in and out
// alias caller memory; they must not outlive the call.
type views[I, O any] struct {
	in  []I
	out []O
}

// bind turns raw pointer/count pairs into slices of exactly the declared
// length. Counts are in elements of I and O, never in bytes. The caller
// guarantees that both regions are valid for the declared counts; that
// cannot be checked here. Both pointers must be non-nil.
func bind[I, O any](in unsafe.Pointer, inLen uint32, out unsafe.Pointer, outCap uint32) views[I, O] {
	return views[I, O]{
		in:  unsafe.Slice((*I)(in), inLen),
		out: unsafe.Slice((*O)(out), outCap),
	}
}

// present reports whether none of the required pointers is nil.
func present(ptrs ...unsafe.Pointer) bool {
	for _, p := range ptrs {
		if p == nil {
			return false
		}
	}
	return true
}
