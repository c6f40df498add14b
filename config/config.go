// Package config reads the opusffi settings through viper. The C library
// only consults environment variables (prefix OPUSFFI, "." and "-"
// replaced by "_", e.g. OPUSFFI_OPUS_BITRATE); the command line tool adds a
// config file and flags on top.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables read by opusffi.
const EnvPrefix = "OPUSFFI"

// Settings is the complete opusffi configuration.
type Settings struct {
	Log  LogSettings
	Opus OpusSettings
}

// LogSettings configure the zap logger. An empty Level disables logging.
type LogSettings struct {
	Level  string
	Format string
}

// OpusSettings tune every encoder created by the library. Zero values
// (-1 for Complexity) keep the libopus defaults.
type OpusSettings struct {
	Bitrate        int
	Complexity     int
	MaxBandwidth   string
	InbandFEC      bool
	PacketLossPerc int
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Log: LogSettings{
			Format: "console",
		},
		Opus: OpusSettings{
			Complexity: -1,
		},
	}
}

// SetDefaults registers the default value of every key with v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("opus.bitrate", d.Opus.Bitrate)
	v.SetDefault("opus.complexity", d.Opus.Complexity)
	v.SetDefault("opus.max-bandwidth", d.Opus.MaxBandwidth)
	v.SetDefault("opus.inband-fec", d.Opus.InbandFEC)
	v.SetDefault("opus.packet-loss-perc", d.Opus.PacketLossPerc)
}

// BindEnv makes v read the OPUSFFI_* environment variables and registers
// the defaults.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// Load copies the settings out of v and validates them. viper lookups
// allocate, so the result should be kept rather than queried per call.
func Load(v *viper.Viper) (Settings, error) {

	s := Settings{
		Log: LogSettings{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Opus: OpusSettings{
			Bitrate:        v.GetInt("opus.bitrate"),
			Complexity:     v.GetInt("opus.complexity"),
			MaxBandwidth:   v.GetString("opus.max-bandwidth"),
			InbandFEC:      v.GetBool("opus.inband-fec"),
			PacketLossPerc: v.GetInt("opus.packet-loss-perc"),
		},
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

type parmError struct {
	parm string
	msg  string
}

func (p *parmError) Error() string {
	return fmt.Sprintf("%v: %v", p.parm, p.msg)
}
