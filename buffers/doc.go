// SPDX-License-Identifier: EPL-2.0

// Package buffers holds the sample buffers used to hand data from a
// producer running at audio rate (a capture callback or a sampling tick) to
// a consumer that processes it in blocks.
//
// DoubleBuffer alternates between two slots behind a mutex. Ring is a
// single-producer, single-consumer queue that needs no lock at all.
package buffers
