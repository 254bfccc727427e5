// Package drv2605l provides constants for register addresses and bitfields
// used in the operation of the DRV2605L haptic motor driver.
package drv2605l

const (
	// 7-bit I2C address (fixed at the factory).
	AddressDefault = 0x5A

	// --- Register sub-addresses (8-bit registers) ---

	regStatus   = 0x00 // R
	regMode     = 0x01 // R/W
	regRTPInput = 0x02 // R/W, real-time playback amplitude
	regLibrary  = 0x03 // R/W

	// Waveform sequencer slots 1..8 are consecutive from regWaveSeq1.
	regWaveSeq1 = 0x04 // R/W
	regWaveSeq2 = 0x05 // R/W
	regWaveSeq3 = 0x06 // R/W
	regWaveSeq4 = 0x07 // R/W
	regWaveSeq5 = 0x08 // R/W
	regWaveSeq6 = 0x09 // R/W
	regWaveSeq7 = 0x0A // R/W
	regWaveSeq8 = 0x0B // R/W

	regGo           = 0x0C // R/W, bit0 self-clears when playback ends
	regOverdrive    = 0x0D // R/W
	regSustainPos   = 0x0E // R/W
	regSustainNeg   = 0x0F // R/W
	regBrake        = 0x10 // R/W
	regAudioCtrl    = 0x11 // R/W
	regAudioMinLvl  = 0x12 // R/W
	regAudioMaxLvl  = 0x13 // R/W
	regRatedVoltage = 0x16 // R/W
	regClampVoltage = 0x17 // R/W
	regAutoCalComp  = 0x18 // R/W
	regAutoCalBEMF  = 0x19 // R/W
	regFeedback     = 0x1A // R/W
	regControl1     = 0x1B // R/W
	regControl2     = 0x1C // R/W
	regControl3     = 0x1D // R/W
	regControl4     = 0x1E // R/W
	regVBatMonitor  = 0x21 // R
	regLRAResonance = 0x22 // R

	// --- MODE (0x01) values ---

	modeInternalTrigger  = 0x00
	modeExtTriggerEdge   = 0x01
	modeExtTriggerLevel  = 0x02
	modePWMAnalog        = 0x03
	modeAudioToVibe      = 0x04
	modeRealtimePlayback = 0x05
	modeDiagnostics      = 0x06
	modeAutoCalibration  = 0x07
	modeStandbyBit       = 0x40
	modeResetBit         = 0x80

	// --- LIBRARY (0x03) values ---

	libEmpty = 0x00
	libERMA  = 0x01
	libERMB  = 0x02
	libERMC  = 0x03
	libERMD  = 0x04
	libERME  = 0x05
	libLRA   = 0x06
	libERMF  = 0x07

	// --- FEEDBACK (0x1A) ---

	feedbackLRA = 0x80 // N_ERM_LRA bit set selects LRA feedback
	feedbackERM = 0x00

	// --- GO (0x0C) ---

	goBit = 0x01

	// --- Fixed configuration values written during Configure ---

	ratedVoltageERM = 0x90 // ~3V rated for a typical ERM
	clampVoltageERM = 0xFF
	control1Default = 0x93 // drive time for ERM
	control2Default = 0xF5 // bidirectional input, unidirectional output
	control3Default = 0xA0 // ERM open loop, NG threshold
)

// StatusBits is the decoded STATUS (0x00) register.
type StatusBits uint8

const (
	StatusOCDetect   StatusBits = 0x01 // overcurrent event
	StatusOverTemp   StatusBits = 0x02 // thermal shutdown
	StatusDiagResult StatusBits = 0x08 // set when diagnostics/calibration failed
)

func (b StatusBits) Has(flag StatusBits) bool { return b&flag != 0 }

// DeviceID extracts the device family code from STATUS bits 7:5
// (3 = DRV2605, 4 = DRV2604, 6 = DRV2604L, 7 = DRV2605L).
func (b StatusBits) DeviceID() uint8 { return uint8(b) >> 5 }

// MaxSequenceLength is the number of hardware waveform sequencer slots.
const MaxSequenceLength = 8
