// SPDX-License-Identifier: EPL-2.0

// Package utils holds per-sample conversions shared by the audio pipeline
// and the device adapters.
package utils
