package cmd

import (
	"fmt"
)

func checkStreamParameters(channels, packetSize int) error {

	if err := checkChannels(channels); err != nil {
		return err
	}

	if packetSize < 1 || packetSize > maxPacketSize {
		return &parmError{
			parm: "packet-size",
			msg:  fmt.Sprintf("allowed values are [1...%d]", maxPacketSize),
		}
	}

	return nil
}

// checkChannels rejects layouts the codec can not carry. Anything but
// stereo would otherwise be taken for mono.
func checkChannels(channels int) error {
	if channels < 1 || channels > 2 {
		return &parmError{
			parm: "channels",
			msg:  "allowed values are [1 (Mono), 2 (Stereo)]",
		}
	}
	return nil
}

type parmError struct {
	parm string
	msg  string
}

func (p *parmError) Error() string {
	return fmt.Sprintf("%v: %v", p.parm, p.msg)
}
