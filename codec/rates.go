// SPDX-License-Identifier: EPL-2.0

package codec

// SampleRates are the sampling frequencies an AAC stream can signal by
// index, highest first.
var SampleRates = [...]int{96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000, 7350}

// NearestSampleRate returns the entry of SampleRates closest to rate,
// preferring the higher one on a tie.
func NearestSampleRate(rate int) int {
	best := SampleRates[0]
	for _, r := range SampleRates[1:] {
		if abs(r-rate) < abs(best-rate) {
			best = r
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
