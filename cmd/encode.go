package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dh1tw/opusffi/audiocodec"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input.(wav|raw)> <output.opus>",
	Short: "Encode 16 bit PCM into Opus packets",
	Long: `Encode 16 bit PCM into Opus packets

The input is either a wav file or raw interleaved s16le samples. In the
latter case --samplerate and --channels describe the content; wav files
are resampled to --samplerate if their rate differs. The packets
are written back to back; with --framed each one is prefixed with its
length (2 byte, big endian) so that it can be decoded again with
"opusffi decode --framed".
`,
	Args: cobra.ExactArgs(2),
	RunE: encodeFile,
}

func init() {
	RootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().IntP("samplerate", "s", 48000, "samplerate of raw input, target rate for wav input")
	encodeCmd.Flags().IntP("channels", "c", 1, "channels of raw input")
	encodeCmd.Flags().StringP("application", "a", "voip", "opus application (voip, audio, restricted_lowdelay)")
	encodeCmd.Flags().Float32P("frame-length", "f", 20, "frame length in ms (2.5, 5, 10, 20, 40, 60)")
	encodeCmd.Flags().Bool("framed", false, "prefix each packet with its length")
	encodeCmd.Flags().Float32("volume", 1, "scale the input by this factor [0...1]")
}

func encodeFile(cmd *cobra.Command, args []string) error {

	s, err := readConfig()
	if err != nil {
		return err
	}

	samplerate, _ := cmd.Flags().GetInt("samplerate")
	channels, _ := cmd.Flags().GetInt("channels")
	appName, _ := cmd.Flags().GetString("application")
	frameLength, _ := cmd.Flags().GetFloat32("frame-length")
	framed, _ := cmd.Flags().GetBool("framed")
	volume, _ := cmd.Flags().GetFloat32("volume")

	app, err := audiocodec.ParseApplication(appName)
	if err != nil {
		return err
	}

	in, err := readPCM(args[0], samplerate, channels)
	if err != nil {
		return err
	}
	if volume != 1 {
		in = in.Scaled(volume)
	}

	frameSize, err := frameSamples(in.Samplerate, frameLength)
	if err != nil {
		return err
	}

	layer, log, err := newLayer(s)
	if err != nil {
		return err
	}
	defer log.Sync()

	enc, err := newEncoder(layer, in.Channels, in.Samplerate, app)
	if err != nil {
		return err
	}
	defer enc.close()

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	pkt := make([]byte, maxPacketSize)
	frame := make([]int16, frameSize*in.Channels)
	packets, bytes := 0, 0

	for i := 0; ; i++ {
		data, full := in.Frame(i, frameSize)
		if data == nil {
			break
		}
		if !full {
			// zero pad the last frame
			clear(frame)
		}
		copy(frame, data)

		n, err := enc.encode(frame, pkt)
		if err != nil {
			return err
		}
		if err := writePacket(w, pkt[:n], framed); err != nil {
			return err
		}
		packets++
		bytes += n
		log.Debug("packet encoded", zap.Int("frame", i), zap.Int("bytes", n))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("encoded %d frames (%d Hz, %s) into %d packets, %d bytes\n",
		in.Frames, in.Samplerate, audiocodec.ChannelsFromWire(uint32(in.Channels)), packets, bytes)

	return nil
}

// frameSamples returns the samples per channel of a frame of ms
// milliseconds. Opus only accepts 2.5, 5, 10, 20, 40 and 60 ms.
func frameSamples(samplerate int, ms float32) (int, error) {
	switch ms {
	case 2.5, 5, 10, 20, 40, 60:
	default:
		return 0, &parmError{
			parm: "frame-length",
			msg:  "allowed values are 2.5, 5, 10, 20, 40, 60ms for the opus codec",
		}
	}
	return int(float32(samplerate) * ms / 1000), nil
}
