package main

import (
	"fmt"
	"os"

	"github.com/dh1tw/opusffi/audiocodec/opus"
	"github.com/dh1tw/opusffi/config"
	"github.com/dh1tw/opusffi/ffi"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// layer serves every exported function. It is built once when the library
// is loaded.
var layer = newLayer()

func newLayer() *ffi.Layer {

	v := viper.New()
	config.BindEnv(v)

	s, err := config.Load(v)
	if err != nil {
		// the host process has no other channel to learn about this
		fmt.Fprintf(os.Stderr, "opusffi: ignoring configuration: %v\n", err)
		s = config.Defaults()
	}

	log, err := s.Log.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "opusffi: logging disabled: %v\n", err)
		log = zap.NewNop()
	}

	encOpts, err := s.Opus.EncoderOptions()
	if err != nil {
		log.Warn("ignoring encoder settings", zap.Error(err))
		encOpts = nil
	}

	return ffi.New(
		ffi.Engine(opus.NewEngine(encOpts...)),
		ffi.Logger(log.Named("opusffi")),
	)
}
