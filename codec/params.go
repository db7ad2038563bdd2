// SPDX-License-Identifier: EPL-2.0

package codec

import "fmt"

// DecoderParam is an integer-keyed decoder option.
type DecoderParam uint16

// Decoder parameters. Ranges and defaults are those of the native library.
const (
	// 0 keep both channels (default), 1/2 dual mono from channel 1/2, 3 mix both.
	PCMDualChannelOutputMode DecoderParam = 0x0002
	// 0 MPEG PCE order, 1 WAV order (default).
	PCMOutputChannelMapping DecoderParam = 0x0003
	// -1 auto (default), 0 off, 1 on.
	PCMLimiterEnable       DecoderParam = 0x0004
	PCMLimiterAttackTime   DecoderParam = 0x0005 // ms
	PCMLimiterReleaseTime  DecoderParam = 0x0006 // ms
	PCMMinOutputChannels   DecoderParam = 0x0011 // -1 disabled (default), 1..8
	PCMMaxOutputChannels   DecoderParam = 0x0012 // -1 disabled (default), 1..8
	MetadataProfile        DecoderParam = 0x0020
	MetadataExpiryTime     DecoderParam = 0x0021 // ms, 0 disables
	ConcealMethod          DecoderParam = 0x0100 // 0 spectral muting, 1 noise, 2 energy interpolation
	DRCBoostFactor         DecoderParam = 0x0200 // 0..127
	DRCAttenuationFactor   DecoderParam = 0x0201 // 0..127
	DRCReferenceLevel      DecoderParam = 0x0202 // -1 off, 40..127 (-0.25 dB steps)
	DRCHeavyCompression    DecoderParam = 0x0203 // 0 off (default), 1 on
	DRCDefaultPresentation DecoderParam = 0x0204
	DRCEncTargetLevel      DecoderParam = 0x0205
	UniDRCSetEffect        DecoderParam = 0x0206
	UniDRCAlbumMode        DecoderParam = 0x0207 // 0 off (default), 1 on
	QMFLowPower            DecoderParam = 0x0300 // -1 auto, 0 complex, 1 real
	TPDecClearBuffer       DecoderParam = 0x0603 // any value clears the transport buffer
)

var decoderParamNames = map[DecoderParam]string{
	PCMDualChannelOutputMode: "pcm_dual_channel_output_mode",
	PCMOutputChannelMapping:  "pcm_output_channel_mapping",
	PCMLimiterEnable:         "pcm_limiter_enable",
	PCMLimiterAttackTime:     "pcm_limiter_attack_time",
	PCMLimiterReleaseTime:    "pcm_limiter_release_time",
	PCMMinOutputChannels:     "pcm_min_output_channels",
	PCMMaxOutputChannels:     "pcm_max_output_channels",
	MetadataProfile:          "metadata_profile",
	MetadataExpiryTime:       "metadata_expiry_time",
	ConcealMethod:            "conceal_method",
	DRCBoostFactor:           "drc_boost_factor",
	DRCAttenuationFactor:     "drc_attenuation_factor",
	DRCReferenceLevel:        "drc_reference_level",
	DRCHeavyCompression:      "drc_heavy_compression",
	DRCDefaultPresentation:   "drc_default_presentation_mode",
	DRCEncTargetLevel:        "drc_enc_target_level",
	UniDRCSetEffect:          "unidrc_set_effect",
	UniDRCAlbumMode:          "unidrc_album_mode",
	QMFLowPower:              "qmf_lowpower",
	TPDecClearBuffer:         "tpdec_clear_buffer",
}

func (p DecoderParam) String() string {
	if name, ok := decoderParamNames[p]; ok {
		return name
	}
	return fmt.Sprintf("decoder_param(0x%04x)", uint16(p))
}

// DecoderFlag is a bit field passed with every DecodeFrame call.
type DecoderFlag uint8

const (
	FlagConceal DecoderFlag = 1 << iota // do concealment
	FlagFlush                           // discard input, flush filter banks
	FlagIntr                            // input is discontinuous, resync
	FlagClrHist                         // clear delay lines and history
)

// EncoderParam is an integer-keyed encoder option.
type EncoderParam uint16

// Encoder parameters.
const (
	EncAOT             EncoderParam = 0x0100
	EncBitrate         EncoderParam = 0x0101 // bits/s, CBR only
	EncBitrateMode     EncoderParam = 0x0102 // 0 CBR, 1..5 VBR quality
	EncSampleRate      EncoderParam = 0x0103
	EncSBRMode         EncoderParam = 0x0104 // ELD only: -1 auto, 0 off, 1 on
	EncGranuleLength   EncoderParam = 0x0105 // 1024, 512, 480
	EncChannelMode     EncoderParam = 0x0106
	EncChannelOrder    EncoderParam = 0x0107 // 0 MPEG, 1 WAV
	EncSBRRatio        EncoderParam = 0x0108
	EncAfterburner     EncoderParam = 0x0200 // 0 off (default), 1 on
	EncBandwidth       EncoderParam = 0x0203
	EncPeakBitrate     EncoderParam = 0x0207
	EncTransmux        EncoderParam = 0x0300
	EncHeaderPeriod    EncoderParam = 0x0301
	EncSignalingMode   EncoderParam = 0x0302
	EncTPSubframes     EncoderParam = 0x0303
	EncAudioMuxVersion EncoderParam = 0x0304
	EncProtection      EncoderParam = 0x0306
	EncAncillaryRate   EncoderParam = 0x0500
	EncMetadataMode    EncoderParam = 0x0600
	EncControlState    EncoderParam = 0xFF00
	EncNone            EncoderParam = 0xFFFF
)

var encoderParamNames = map[EncoderParam]string{
	EncAOT:             "aot",
	EncBitrate:         "bitrate",
	EncBitrateMode:     "bitrate_mode",
	EncSampleRate:      "samplerate",
	EncSBRMode:         "sbr_mode",
	EncGranuleLength:   "granule_length",
	EncChannelMode:     "channel_mode",
	EncChannelOrder:    "channel_order",
	EncSBRRatio:        "sbr_ratio",
	EncAfterburner:     "afterburner",
	EncBandwidth:       "bandwidth",
	EncPeakBitrate:     "peak_bitrate",
	EncTransmux:        "transmux",
	EncHeaderPeriod:    "header_period",
	EncSignalingMode:   "signaling_mode",
	EncTPSubframes:     "tp_subframes",
	EncAudioMuxVersion: "audio_mux_version",
	EncProtection:      "protection",
	EncAncillaryRate:   "ancillary_bitrate",
	EncMetadataMode:    "metadata_mode",
	EncControlState:    "control_state",
	EncNone:            "none",
}

func (p EncoderParam) String() string {
	if name, ok := encoderParamNames[p]; ok {
		return name
	}
	return fmt.Sprintf("encoder_param(0x%04x)", uint16(p))
}

// AudioObjectType identifies the AAC profile.
type AudioObjectType uint32

const (
	AOTAACLC    AudioObjectType = 2
	AOTSBR      AudioObjectType = 5  // HE-AAC
	AOTERAACLD  AudioObjectType = 23 // Low Delay
	AOTPS       AudioObjectType = 29 // HE-AAC v2, stereo input only
	AOTERAACELD AudioObjectType = 39 // Enhanced Low Delay
	AOTMP2AACLC AudioObjectType = 129
	AOTMP2SBR   AudioObjectType = 132
)

// UsesSBR reports whether the object type carries spectral band replication.
func (a AudioObjectType) UsesSBR() bool {
	return a == AOTSBR || a == AOTPS || a == AOTMP2SBR
}

// ChannelMode is the encoder channel layout.
type ChannelMode uint32

const (
	Mode1       ChannelMode = 1 // C
	Mode2       ChannelMode = 2 // L+R
	Mode1_2     ChannelMode = 3 // C, L+R
	Mode1_2_1   ChannelMode = 4 // C, L+R, Rear
	Mode1_2_2   ChannelMode = 5 // C, L+R, LS+RS
	Mode1_2_2_1 ChannelMode = 6 // C, L+R, LS+RS, LFE
)

// EncoderModule selects the sub-libraries an encoder handle is opened with.
type EncoderModule uint32

const (
	ModuleAll      EncoderModule = 0
	ModuleAAC      EncoderModule = 0x01
	ModuleSBR      EncoderModule = 0x02
	ModulePS       EncoderModule = 0x04
	ModuleMetadata EncoderModule = 0x10
)
