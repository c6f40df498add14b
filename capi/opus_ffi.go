// Command capi is the C ABI of opusffi. Build it as a shared or static
// library; cgo writes the matching header next to it:
//
//	go build -buildmode=c-shared -o libopus_ffi.so ./capi
//	go build -buildmode=c-archive -o libopus_ffi.a ./capi
//
// Handles are uintptr_t tokens; 0 is the null handle. Every function that
// returns int returns 0 on success and a negative code on failure. If an
// OpusError is supplied, a failure fills it and the caller owns
// error->message: release it with free_c_string(&error.message) when the
// record lives on the caller's side, or release the whole record with
// free_opus_error when it came from new_opus_error. Never both.
//
// Logging and encoder tuning are read from OPUSFFI_* environment variables
// when the library is loaded.
package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>

typedef struct OpusError {
	int code;
	char *message;
} OpusError;

typedef uintptr_t Decoder;
typedef uintptr_t Encoder;
*/
import "C"

import (
	"unsafe"

	"github.com/dh1tw/opusffi/ffi"
)

func main() {}

// new_decoder creates a decoder. channels: 1 mono, 2 stereo, anything
// else mono. sample_rate: 8000, 12000, 16000, 24000 or 48000.
//
//export new_decoder
func new_decoder(channels C.uint32_t, sample_rate C.uint32_t, result *C.Decoder, error *C.OpusError) C.int {
	return C.int(layer.NewDecoder(uint32(channels), uint32(sample_rate),
		(*ffi.Handle)(unsafe.Pointer(result)), record(error)))
}

// decode decodes input_size bytes into at most output_size int16 samples
// and stores the samples per channel produced in decoded_size.
//
//export decode
func decode(decoder C.Decoder, input *C.uint8_t, input_size C.uint32_t,
	output *C.int16_t, output_size C.uint32_t, fec C.bool,
	decoded_size *C.size_t, error *C.OpusError) C.int {

	return C.int(layer.Decode(ffi.Handle(decoder),
		unsafe.Pointer(input), uint32(input_size),
		unsafe.Pointer(output), uint32(output_size), bool(fec),
		(*uintptr)(unsafe.Pointer(decoded_size)), record(error)))
}

// decode_float is decode with float output samples.
//
//export decode_float
func decode_float(decoder C.Decoder, input *C.uint8_t, input_size C.uint32_t,
	output *C.float, output_size C.uint32_t, fec C.bool,
	result *C.size_t, error *C.OpusError) C.int {

	return C.int(layer.DecodeFloat(ffi.Handle(decoder),
		unsafe.Pointer(input), uint32(input_size),
		unsafe.Pointer(output), uint32(output_size), bool(fec),
		(*uintptr)(unsafe.Pointer(result)), record(error)))
}

// free_decoder destroys a decoder. NULL (0) is ignored.
//
//export free_decoder
func free_decoder(decoder C.Decoder) {
	layer.FreeDecoder(ffi.Handle(decoder))
}

// new_encoder creates an encoder. application: 1 voip, 2 audio, 3 low
// delay, anything else voip.
//
//export new_encoder
func new_encoder(channels C.uint32_t, sample_rate C.uint32_t, application C.uint32_t,
	result *C.Encoder, error *C.OpusError) C.int {

	return C.int(layer.NewEncoder(uint32(channels), uint32(sample_rate), uint32(application),
		(*ffi.Handle)(unsafe.Pointer(result)), record(error)))
}

// encode encodes input_size interleaved int16 samples into at most
// output_size bytes and stores the packet length in encoded_size.
//
//export encode
func encode(encoder C.Encoder, input *C.int16_t, input_size C.uint32_t,
	output *C.uint8_t, output_size C.uint32_t,
	encoded_size *C.size_t, error *C.OpusError) C.int {

	return C.int(layer.Encode(ffi.Handle(encoder),
		unsafe.Pointer(input), uint32(input_size),
		unsafe.Pointer(output), uint32(output_size),
		(*uintptr)(unsafe.Pointer(encoded_size)), record(error)))
}

// encode_float is encode with float input samples.
//
//export encode_float
func encode_float(encoder C.Encoder, input *C.float, input_size C.uint32_t,
	output *C.uint8_t, output_size C.uint32_t,
	result *C.size_t, error *C.OpusError) C.int {

	return C.int(layer.EncodeFloat(ffi.Handle(encoder),
		unsafe.Pointer(input), uint32(input_size),
		unsafe.Pointer(output), uint32(output_size),
		(*uintptr)(unsafe.Pointer(result)), record(error)))
}

// free_encoder destroys an encoder. NULL (0) is ignored.
//
//export free_encoder
func free_encoder(encoder C.Encoder) {
	layer.FreeEncoder(ffi.Handle(encoder))
}

// free_c_string frees *p and sets it to NULL. p or *p being NULL is a no-op.
//
//export free_c_string
func free_c_string(p **C.char) {
	ffi.ReleaseMessage((*unsafe.Pointer)(unsafe.Pointer(p)))
}

// new_opus_error allocates a zeroed OpusError owned by the library, or
// returns NULL if out of memory. Release it with free_opus_error.
//
//export new_opus_error
func new_opus_error() *C.OpusError {
	return (*C.OpusError)(unsafe.Pointer(ffi.NewRecord()))
}

// free_opus_error frees a record from new_opus_error together with its
// message. NULL is a no-op.
//
//export free_opus_error
func free_opus_error(e *C.OpusError) {
	ffi.ReleaseRecord(record(e))
}

func record(e *C.OpusError) *ffi.Record {
	return (*ffi.Record)(unsafe.Pointer(e))
}
