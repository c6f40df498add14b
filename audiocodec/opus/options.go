package opus

import opus "gopkg.in/hraban/opus.v2"

type Option func(*Options)

// Options holds the construction parameters of an Opus session. Encoder
// tuning values left at their zero value (or -1 for Complexity) keep the
// libopus defaults.
type Options struct {
	Samplerate     int
	Channels       int
	Application    opus.Application
	Bitrate        int
	Complexity     int
	MaxBandwidth   opus.Bandwidth
	InbandFEC      bool
	PacketLossPerc int
}

// Samplerate sets the sample rate in Hz (8000, 12000, 16000, 24000, 48000).
func Samplerate(sr int) Option {
	return func(args *Options) {
		args.Samplerate = sr
	}
}

// Channels sets the amount of interleaved audio channels (1 or 2).
func Channels(chs int) Option {
	return func(args *Options) {
		args.Channels = chs
	}
}

// Application sets the optimization target of an encoder.
func Application(app opus.Application) Option {
	return func(args *Options) {
		args.Application = app
	}
}

// Bitrate sets the target bitrate of an encoder in bit/s.
func Bitrate(br int) Option {
	return func(args *Options) {
		args.Bitrate = br
	}
}

// Complexity sets the computational complexity of an encoder (0...10).
func Complexity(c int) Option {
	return func(args *Options) {
		args.Complexity = c
	}
}

// MaxBandwidth limits the audio bandwidth an encoder may use.
func MaxBandwidth(bw opus.Bandwidth) Option {
	return func(args *Options) {
		args.MaxBandwidth = bw
	}
}

// InbandFEC enables in-band forward error correction, which lets a
// decoder recover a lost packet from redundancy in the following one.
func InbandFEC(enabled bool) Option {
	return func(args *Options) {
		args.InbandFEC = enabled
	}
}

// PacketLossPerc tells the encoder the expected packet loss in percent.
func PacketLossPerc(perc int) Option {
	return func(args *Options) {
		args.PacketLossPerc = perc
	}
}
