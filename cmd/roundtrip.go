package cmd

import (
	"fmt"

	"github.com/dh1tw/opusffi/audio"
	"github.com/dh1tw/opusffi/audiocodec"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Encode and decode a test signal through the codec layer",
	Long: `Encode and decode a test signal through the codec layer

A generated signal (silence or a sine tone) or a wav file (resampled to
--samplerate) is encoded frame by frame and every packet is decoded right
away, just like a C caller of libopus_ffi would do it. With --loss-every n every n-th packet is dropped
and concealed (or recovered through in-band FEC with --fec).
`,
	RunE: roundtrip,
}

func init() {
	RootCmd.AddCommand(roundtripCmd)
	roundtripCmd.Flags().IntP("samplerate", "s", 48000, "samplerate (8000, 12000, 16000, 24000, 48000)")
	roundtripCmd.Flags().IntP("channels", "c", 1, "channels (1 or 2)")
	roundtripCmd.Flags().StringP("application", "a", "voip", "opus application (voip, audio, restricted_lowdelay)")
	roundtripCmd.Flags().Float32P("frame-length", "f", 20, "frame length in ms (2.5, 5, 10, 20, 40, 60)")
	roundtripCmd.Flags().String("signal", "sine", "test signal (sine or silence)")
	roundtripCmd.Flags().Float32("frequency", 440, "frequency of the sine in Hz")
	roundtripCmd.Flags().Float32("duration", 1, "duration of the test signal in seconds")
	roundtripCmd.Flags().StringP("input", "i", "", "wav file to use instead of a generated signal")
	roundtripCmd.Flags().StringP("output", "o", "", "write the decoded audio into this wav file")
	roundtripCmd.Flags().Int("loss-every", 0, "drop every n-th packet (0 = no loss)")
	roundtripCmd.Flags().Bool("fec", false, "recover dropped packets through in-band FEC")
	roundtripCmd.Flags().Bool("float", false, "use the float32 entry points")
	roundtripCmd.Flags().Float32("volume", 1, "scale the input by this factor [0...1]")
}

// roundtripParams contains everything a single roundtrip run needs.
type roundtripParams struct {
	app         audiocodec.Application
	frameLength float32
	lossEvery   int
	fec         bool
	float       bool
}

// roundtripStats summarizes a roundtrip run.
type roundtripStats struct {
	packets   int
	bytes     int
	lost      int
	frames    int
	maxPacket int
	rmsIn     float32
	rmsOut    float32
}

func roundtrip(cmd *cobra.Command, args []string) error {

	s, err := readConfig()
	if err != nil {
		return err
	}

	samplerate, _ := cmd.Flags().GetInt("samplerate")
	channels, _ := cmd.Flags().GetInt("channels")
	appName, _ := cmd.Flags().GetString("application")
	signal, _ := cmd.Flags().GetString("signal")
	freq, _ := cmd.Flags().GetFloat32("frequency")
	duration, _ := cmd.Flags().GetFloat32("duration")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	volume, _ := cmd.Flags().GetFloat32("volume")

	p := roundtripParams{}
	p.frameLength, _ = cmd.Flags().GetFloat32("frame-length")
	p.lossEvery, _ = cmd.Flags().GetInt("loss-every")
	p.fec, _ = cmd.Flags().GetBool("fec")
	p.float, _ = cmd.Flags().GetBool("float")

	if p.app, err = audiocodec.ParseApplication(appName); err != nil {
		return err
	}

	var in audio.Msg
	switch {
	case input != "":
		in, err = readPCM(input, samplerate, channels)
	case signal == "sine":
		in, err = audio.Sine(freq, 0.5, samplerate, channels, duration)
	case signal == "silence":
		in = audio.Silence(samplerate, channels, duration)
	default:
		err = &parmError{parm: "signal", msg: "allowed values are sine or silence"}
	}
	if err != nil {
		return err
	}
	if err := checkChannels(in.Channels); err != nil {
		return err
	}
	if volume != 1 {
		in = in.Scaled(volume)
	}

	layer, log, err := newLayer(s)
	if err != nil {
		return err
	}
	defer log.Sync()

	enc, err := newEncoder(layer, in.Channels, in.Samplerate, p.app)
	if err != nil {
		return err
	}
	defer enc.close()

	dec, err := newDecoder(layer, in.Channels, in.Samplerate)
	if err != nil {
		return err
	}
	defer dec.close()

	var sink pcmSink
	if output != "" {
		if sink, err = newPCMSink(output, in.Samplerate, in.Channels); err != nil {
			return err
		}
	}

	stats, err := runRoundtrip(enc, dec, in, p, sink, log)
	if sink != nil {
		if cErr := sink.Close(); err == nil {
			err = cErr
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("%d Hz, %s, %s, %v ms frames\n", in.Samplerate,
		audiocodec.ChannelsFromWire(uint32(in.Channels)), p.app, p.frameLength)
	fmt.Printf("packets: %d (lost %d), bytes: %d, max packet: %d bytes\n",
		stats.packets, stats.lost, stats.bytes, stats.maxPacket)
	fmt.Printf("frames in: %d, frames out: %d, rms in: %.4f, rms out: %.4f\n",
		in.Frames, stats.frames, stats.rmsIn, stats.rmsOut)

	return nil
}

// runRoundtrip pushes in through enc and dec. Decoded audio is written to
// sink, if one is given.
func runRoundtrip(enc *encoder, dec *decoder, in audio.Msg, p roundtripParams,
	sink pcmSink, log *zap.Logger) (roundtripStats, error) {

	var stats roundtripStats

	frameSize, err := frameSamples(in.Samplerate, p.frameLength)
	if err != nil {
		return stats, err
	}

	pkt := make([]byte, maxPacketSize)
	frame := make([]int16, frameSize*in.Channels)
	out := make([]int16, frameSize*in.Channels)
	outF := make([]float32, frameSize*in.Channels)
	var decoded []int16

	// set while a dropped packet waits to be recovered from its successor
	var lost bool

	for i := 0; ; i++ {
		data, full := in.Frame(i, frameSize)
		if data == nil {
			break
		}
		if !full {
			clear(frame)
		}
		copy(frame, data)

		var n int
		if p.float {
			n, err = enc.encodeFloat(audio.ToFloat32(frame), pkt)
		} else {
			n, err = enc.encode(frame, pkt)
		}
		if err != nil {
			return stats, err
		}
		stats.packets++
		stats.bytes += n
		stats.maxPacket = max(stats.maxPacket, n)

		if p.lossEvery > 0 && (i+1)%p.lossEvery == 0 {
			stats.lost++
			log.Debug("dropping packet", zap.Int("packet", i))
			if !p.fec {
				// conceal right away
				if err := decodeInto(dec, nil, out, outF, p.float, false, &decoded); err != nil {
					return stats, err
				}
				continue
			}
			lost = true
			continue
		}

		if lost {
			// reconstruct the dropped packet from this one
			if err := decodeInto(dec, pkt[:n], out, outF, p.float, true, &decoded); err != nil {
				return stats, err
			}
			lost = false
		}

		if err := decodeInto(dec, pkt[:n], out, outF, p.float, false, &decoded); err != nil {
			return stats, err
		}
	}

	if lost {
		if err := decodeInto(dec, nil, out, outF, p.float, false, &decoded); err != nil {
			return stats, err
		}
	}

	stats.frames = len(decoded) / in.Channels
	stats.rmsIn = audio.RMS(audio.ToFloat32(in.Data))
	stats.rmsOut = audio.RMS(audio.ToFloat32(decoded))

	if sink != nil {
		err = sink.Write(audio.Msg{
			Data:       decoded,
			Samplerate: in.Samplerate,
			Channels:   in.Channels,
			Frames:     stats.frames,
		})
	}

	return stats, err
}

func decodeInto(dec *decoder, pkt []byte, out []int16, outF []float32,
	float, fec bool, decoded *[]int16) error {

	if float {
		n, err := dec.decodeFloat(pkt, outF, fec)
		if err != nil {
			return err
		}
		*decoded = append(*decoded, audio.ToInt16(outF[:n*dec.channels])...)
		return nil
	}

	n, err := dec.decode(pkt, out, fec)
	if err != nil {
		return err
	}
	*decoded = append(*decoded, out[:n*dec.channels]...)
	return nil
}
