// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1,1] to 16-bit PCM, clamping values
// outside that range.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 on both sides keeps +1 from overflowing
	return int16(x * 32767.0)
}

// Int16ToFloat32 converts a 16-bit PCM sample to [-1,1).
func Int16ToFloat32(s int16) float32 {
	return float32(s) / 32768.0
}

// Int16ToDAC8 maps a signed 16-bit sample onto the 0..254 range of an
// unsigned 8-bit DAC, centred on 127.
func Int16ToDAC8(s int16) uint8 {
	return uint8(float32(s)/32767.0*127.0 + 127.0)
}

// Int16ToDACSlot places the 8-bit DAC value of s in the high byte of a
// 16-bit sample slot, which is the byte a built-in DAC consumes.
func Int16ToDACSlot(s int16) uint16 {
	return uint16(Int16ToDAC8(s)) << 8
}
