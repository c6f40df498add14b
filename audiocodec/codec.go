package audiocodec

// Encoder turns interleaved PCM samples into compressed packets.
type Encoder interface {
	Name() string
	Encode(interface{}, []byte) (int, error) // []int16 or []float32 input, bytes written
}

// Decoder turns compressed packets into interleaved PCM samples.
type Decoder interface {
	Name() string
	Decode([]byte, interface{}, bool) (int, error) // []int16 or []float32 output, fec, samples per channel
}

// Engine constructs codec sessions. Implementations report failures as
// *Error so the numeric code survives the trip to the caller.
type Engine interface {
	NewDecoder(samplerate int, channels Channels) (Decoder, error)
	NewEncoder(samplerate int, channels Channels, app Application) (Encoder, error)
}
