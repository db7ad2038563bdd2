// SPDX-License-Identifier: EPL-2.0

package fdkaac

import (
	"fmt"

	goaac "github.com/llehouerou/go-aac"

	"github.com/ik5/aacpbx/codec"
)

// syncIndex returns the offset of the first ADTS syncword in p, or -1.
func syncIndex(p []byte) int {
	for i := 0; i+1 < len(p); i++ {
		if p[i] == 0xFF && p[i+1]&0xF0 == 0xF0 {
			return i
		}
	}
	return -1
}

// adtsFrameLength returns the frame_length field of an ADTS header at the
// start of p, or 0 when p does not start with a complete header.
func adtsFrameLength(p []byte) int {
	if len(p) < 7 || syncIndex(p[:2]) != 0 {
		return 0
	}
	size := int(p[3]&0x03)<<11 | int(p[4])<<3 | int(p[5])>>5
	if size < 7 {
		return 0
	}
	return size
}

// Probe reads the sample rate, channel count, frame length and object type
// from the first ADTS header in p.
func Probe(p []byte) (codec.StreamInfo, error) {
	i := syncIndex(p)
	if i < 0 {
		return codec.StreamInfo{}, codec.ErrDecTransportSync
	}

	dec := goaac.NewDecoder()
	defer dec.Close()

	res, err := dec.Init(p[i:])
	if err != nil {
		return codec.StreamInfo{}, fmt.Errorf("fdkaac: probe: %w", err)
	}
	return codec.StreamInfo{
		SampleRate: int(res.SampleRate),
		Channels:   int(res.Channels),
		FrameSize:  int(dec.FrameLength()),
		AOT:        codec.AudioObjectType(dec.ObjectType()),
	}, nil
}
