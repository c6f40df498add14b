package audio

import (
	"github.com/chewxy/math32"
)

// AdjustChannels converts interleaved samples from iChs to oChs channels.
// Only mono and stereo are supported; mono is duplicated into both
// channels and stereo keeps the left channel.
func AdjustChannels(iChs, oChs int, frames []int16) []int16 {
	if iChs == oChs {
		return frames
	}

	// mono -> stereo
	if iChs == 1 && oChs == 2 {
		res := make([]int16, 0, len(frames)*2)
		for _, frame := range frames {
			res = append(res, frame, frame)
		}
		return res
	}

	// stereo -> mono
	res := make([]int16, 0, len(frames)/2)
	for i := 0; i+1 < len(frames); i += 2 {
		res = append(res, frames[i])
	}
	return res
}

// AdjustVolume scales the samples in place. volume is clamped to [0...1].
func AdjustVolume(volume float32, frames []float32) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	for i := range frames {
		frames[i] *= volume
	}
}

// ToInt16 converts float samples in [-1...1] to 16 bit PCM. Values outside
// the range are clipped.
func ToInt16(frames []float32) []int16 {
	res := make([]int16, len(frames))
	for i, f := range frames {
		v := f * 32768
		switch {
		case v > 32767:
			res[i] = 32767
		case v < -32768:
			res[i] = -32768
		default:
			res[i] = int16(v)
		}
	}
	return res
}

// ToFloat32 converts 16 bit PCM to float samples in [-1...1).
func ToFloat32(frames []int16) []float32 {
	res := make([]float32, len(frames))
	for i, s := range frames {
		res[i] = float32(s) / 32768
	}
	return res
}

// RMS returns the root mean square of the samples.
func RMS(frames []float32) float32 {
	if len(frames) == 0 {
		return 0
	}
	var sum float32
	for _, f := range frames {
		sum += f * f
	}
	return math32.Sqrt(sum / float32(len(frames)))
}
