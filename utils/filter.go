// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Filter is a linear sample transform: value*Scale + Offset.
type Filter struct {
	Scale  float32
	Offset float32
}

// Identity passes samples through unchanged.
var Identity = Filter{Scale: 1}

func (f Filter) IsIdentity() bool {
	return f == Identity
}

// Apply transforms s, rounding to the nearest value and clamping to the
// int16 range.
func (f Filter) Apply(s int16) int16 {
	v := math.Round(float64(float32(s)*f.Scale + f.Offset))
	return int16(max(min(v, math.MaxInt16), math.MinInt16))
}
