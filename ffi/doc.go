// Package ffi marshals calls from foreign (C ABI) callers into a codec
// engine.
//
// Every operation returns an int32 code: 0 on success, a negative engine
// code for a domain failure, CodeInvalidInput if a required pointer was
// nil (checked before the engine is touched) and CodeInternalFault if the
// engine panicked. No panic ever propagates out of this package. On
// failure an optional *Record receives the code and a message allocated
// with the C allocator; the holder of the record owns that message.
//
// Sessions are handed out as Handles. A handle is created by NewDecoder or
// NewEncoder and must be released exactly once with the matching Free
// function. Stale, unknown and wrong-kind handles are rejected with
// CodeInvalidInput rather than dereferenced.
//
// Buffers are passed as pointer/count pairs and bound to slices of exactly
// the declared count. Counts are bytes for Opus packets and samples
// (interleaved over all channels) for PCM. The package trusts the declared
// counts; passing a count larger than the backing allocation is undefined
// behaviour.
package ffi
