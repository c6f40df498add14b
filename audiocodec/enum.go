package audiocodec

import (
	"strings"

	"github.com/pkg/errors"
)

// Channels is the channel layout of a codec session.
type Channels int

const (
	Mono   Channels = 1
	Stereo Channels = 2
)

// ChannelsFromWire maps the channel count a foreign caller passes in.
// Anything other than 2 is treated as mono.
func ChannelsFromWire(v uint32) Channels {
	switch v {
	case 2:
		return Stereo
	default:
		return Mono
	}
}

func (c Channels) String() string {
	if c == Stereo {
		return "stereo"
	}
	return "mono"
}

// Application is the optimization target of an encoder.
type Application int

const (
	AppVoIP     Application = 1
	AppAudio    Application = 2
	AppLowDelay Application = 3
)

// ApplicationFromWire maps the application mode a foreign caller passes in.
// Unknown values fall back to AppVoIP.
func ApplicationFromWire(v uint32) Application {
	switch v {
	case 2:
		return AppAudio
	case 3:
		return AppLowDelay
	default:
		return AppVoIP
	}
}

func (a Application) String() string {
	switch a {
	case AppAudio:
		return "audio"
	case AppLowDelay:
		return "lowdelay"
	default:
		return "voip"
	}
}

// ParseApplication returns the application for a setting string
// (voip, audio or restricted_lowdelay).
func ParseApplication(app string) (Application, error) {
	switch strings.ToLower(app) {
	case "voip":
		return AppVoIP, nil
	case "audio":
		return AppAudio, nil
	case "restricted_lowdelay", "lowdelay":
		return AppLowDelay, nil
	}
	return 0, errors.New("unknown application value")
}
