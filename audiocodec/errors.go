package audiocodec

// CodeUnknown is reported for engine failures that carry no number of
// their own. It sits just below the lowest libopus error (OPUS_ALLOC_FAIL).
const CodeUnknown int32 = -8

// Error is a structured failure reported by a codec engine.
type Error struct {
	Code        int32
	Description string
}

func (e *Error) Error() string {
	return e.Description
}
