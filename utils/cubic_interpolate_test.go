// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x, want, tol   float32
	}{
		{"start", 0, 1, 2, 3, 0, 1, 0.001},
		{"end", 0, 1, 2, 3, 1, 2, 0.001},
		{"linear midpoint", 0, 1, 2, 3, 0.5, 1.5, 0.001},
		{"linear quarter", 1, 2, 3, 4, 0.25, 2.25, 0.001},
		{"crossing zero", -1, -0.5, 0.5, 1, 0.5, 0, 0.1},
		{"silence", 0, 0, 0, 0, 0.5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if diff := math.Abs(float64(got - tt.want)); diff > float64(tt.tol) {
				t.Errorf("CubicInterpolate() = %v, want %v ±%v", got, tt.want, tt.tol)
			}
		})
	}
}

func TestCubicInterpolateHitsEndpoints(t *testing.T) {
	t.Parallel()

	for i := range 50 {
		y0, y1, y2, y3 := float32(i), float32(i+1), float32(i+2), float32(i+3)
		if got := CubicInterpolate(y0, y1, y2, y3, 0); got != y1 {
			t.Errorf("x=0: got %v, want %v", got, y1)
		}
		if got := CubicInterpolate(y0, y1, y2, y3, 1); got != y2 {
			t.Errorf("x=1: got %v, want %v", got, y2)
		}
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	out := make([]float32, 8000)
	b.ReportAllocs()
	for range b.N {
		for j := range out {
			out[j] = CubicInterpolate(0.1, 0.5, 0.3, -0.2, float32(j%100)/100)
		}
	}
}
