package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dh1tw/opusffi/audio"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <input.opus> <output.(wav|raw)>",
	Short: "Decode Opus packets into 16 bit PCM",
	Long: `Decode Opus packets into 16 bit PCM

The packet file is cut into chunks of --packet-size bytes, which matches
constant bitrate streams. Files written by "opusffi encode --framed" are
read with --framed instead. The output is a wav file if its name ends in
.wav, raw interleaved s16le samples otherwise.
`,
	Args: cobra.ExactArgs(2),
	RunE: decodeFile,
}

func init() {
	RootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().IntP("samplerate", "s", 48000, "output samplerate (8000, 12000, 16000, 24000, 48000)")
	decodeCmd.Flags().IntP("channels", "c", 1, "output channels")
	decodeCmd.Flags().IntP("packet-size", "p", 80, "packet size in bytes of unframed input")
	decodeCmd.Flags().Bool("framed", false, "packets are prefixed with their length")
	decodeCmd.Flags().Bool("fec", false, "recover lost packets through in-band FEC")
}

func decodeFile(cmd *cobra.Command, args []string) error {

	s, err := readConfig()
	if err != nil {
		return err
	}

	samplerate, _ := cmd.Flags().GetInt("samplerate")
	channels, _ := cmd.Flags().GetInt("channels")
	packetSize, _ := cmd.Flags().GetInt("packet-size")
	framed, _ := cmd.Flags().GetBool("framed")
	fec, _ := cmd.Flags().GetBool("fec")

	if err := checkStreamParameters(channels, packetSize); err != nil {
		return err
	}

	layer, log, err := newLayer(s)
	if err != nil {
		return err
	}
	defer log.Sync()

	dec, err := newDecoder(layer, channels, samplerate)
	if err != nil {
		return err
	}
	defer dec.close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	sink, err := newPCMSink(args[1], samplerate, channels)
	if err != nil {
		return err
	}

	pr := &packetReader{r: bufio.NewReader(f), framed: framed, size: packetSize}
	pkt := make([]byte, maxPacketSize)
	// room for the longest opus frame (120 ms)
	pcm := make([]int16, samplerate*120/1000*channels)
	packets, frames := 0, 0

	for {
		p, err := pr.next(pkt)
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.Close()
			return err
		}

		n, err := dec.decode(p, pcm, fec)
		if err != nil {
			sink.Close()
			return errors.Wrapf(err, "packet %d", packets)
		}
		log.Debug("packet decoded", zap.Int("packet", packets),
			zap.Int("bytes", len(p)), zap.Int("samples", n))

		if err := sink.Write(audio.Msg{
			Data:       pcm[:n*channels],
			Samplerate: samplerate,
			Channels:   channels,
			Frames:     n,
		}); err != nil {
			sink.Close()
			return err
		}
		packets++
		frames += n
	}

	if err := sink.Close(); err != nil {
		return err
	}

	fmt.Printf("decoded %d packets into %d frames (%d Hz, %d channel(s))\n",
		packets, frames, samplerate, channels)

	return nil
}
