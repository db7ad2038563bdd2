// SPDX-License-Identifier: EPL-2.0

package aac

import "github.com/ik5/aacpbx/codec"

// FrameHandler receives every decoded frame. pcm holds interleaved samples
// and is only valid until HandleFrame returns.
type FrameHandler interface {
	HandleFrame(info codec.StreamInfo, pcm []int16)
}

// FrameHandlerFunc adapts a function to FrameHandler.
type FrameHandlerFunc func(info codec.StreamInfo, pcm []int16)

func (f FrameHandlerFunc) HandleFrame(info codec.StreamInfo, pcm []int16) { f(info, pcm) }

// InfoHandler is told when the decoded sample rate changes.
type InfoHandler interface {
	HandleInfo(info codec.StreamInfo)
}

type InfoHandlerFunc func(info codec.StreamInfo)

func (f InfoHandlerFunc) HandleInfo(info codec.StreamInfo) { f(info) }

// PacketHandler receives every encoded packet. p is only valid until
// HandlePacket returns.
type PacketHandler interface {
	HandlePacket(p []byte)
}

type PacketHandlerFunc func(p []byte)

func (f PacketHandlerFunc) HandlePacket(p []byte) { f(p) }
