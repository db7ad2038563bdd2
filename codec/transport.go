// SPDX-License-Identifier: EPL-2.0

package codec

import "fmt"

// TransportType is the framing format around compressed AAC access units.
// Values match the native library so they can be passed through unchanged.
type TransportType int

const (
	TransportUnknown  TransportType = -1 // let the library detect it
	TransportRaw      TransportType = 0  // "as is" access units, needs ASC
	TransportADIF     TransportType = 1
	TransportADTS     TransportType = 2
	TransportLATMMCP1 TransportType = 6  // LATM with in-band StreamMuxConfig
	TransportLATMMCP0 TransportType = 7  // LATM without in-band config, needs SMC
	TransportLOAS     TransportType = 10 // audio sync stream
	TransportDRM      TransportType = 12 // DRM30/DRM+
)

var transportNames = map[TransportType]string{
	TransportUnknown:  "unknown",
	TransportRaw:      "raw",
	TransportADIF:     "adif",
	TransportADTS:     "adts",
	TransportLATMMCP1: "latm-mcp1",
	TransportLATMMCP0: "latm-mcp0",
	TransportLOAS:     "loas",
	TransportDRM:      "drm",
}

func (t TransportType) String() string {
	if name, ok := transportNames[t]; ok {
		return name
	}
	return fmt.Sprintf("transport(%d)", int(t))
}

// ParseTransport maps a name as returned by String back to its TransportType.
func ParseTransport(name string) (TransportType, error) {
	for t, n := range transportNames {
		if n == name {
			return t, nil
		}
	}
	return TransportUnknown, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
}

// NeedsRawConfig reports whether the decoder has to be given an
// AudioSpecificConfig or StreamMuxConfig before it can decode this transport.
func (t TransportType) NeedsRawConfig() bool {
	return t == TransportRaw || t == TransportLATMMCP0
}
