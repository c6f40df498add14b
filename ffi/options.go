package ffi

import (
	"github.com/dh1tw/opusffi/audiocodec"
	"go.uber.org/zap"
)

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a Layer.
type Options struct {
	Engine audiocodec.Engine
	Logger *zap.Logger
}

// Engine is a functional option which sets the codec engine the layer
// creates its sessions with.
func Engine(e audiocodec.Engine) Option {
	return func(args *Options) {
		args.Engine = e
	}
}

// Logger is a functional option which sets the logger. Recovered panics
// are logged at error level, including the panic value and stack trace
// which never reach the caller.
func Logger(l *zap.Logger) Option {
	return func(args *Options) {
		args.Logger = l
	}
}
