// Package drv2605l provides a driver for the TI DRV2605L haptic motor
// controller. The device plays waveforms from a built-in effect library
// (ids 1..123) through an internal sequencer of eight slots, triggered by
// the GO register.
//
// Typical use:
//
//	d := drv2605l.New(bus)
//	err := d.Configure(drv2605l.MotorERM)
//	err = d.PlayEffect(drv2605l.EffectSharpClick100)
//
// LRA motors need an AutoCalibrate call after Configure: the driver only
// programs library and feedback selection for LRA and leaves rated-voltage
// and overdrive values to the calibration engine.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package drv2605l

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"github.com/Xavialess/Stride/x/mathx"
)

// MotorType selects the connected actuator topology.
type MotorType uint8

const (
	MotorERM MotorType = iota // eccentric rotating mass
	MotorLRA                  // linear resonant actuator
)

func (m MotorType) String() string {
	if m == MotorLRA {
		return "LRA"
	}
	return "ERM"
}

// Errors returned by the driver.
var (
	ErrNotInitialized = errors.New("drv2605l: not initialized")
	ErrInvalidEffect  = errors.New("drv2605l: effect id out of range")
	ErrUnsupported    = errors.New("drv2605l: unsupported for this motor type")
	ErrTimeout        = errors.New("drv2605l: timeout")
	ErrCalibration    = errors.New("drv2605l: auto-calibration failed")
	ErrEmptySequence  = errors.New("drv2605l: empty sequence")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x5A if zero.
	Address uint16
	// CalPollInterval is the GO-bit poll period during AutoCalibrate.
	// Default 10 ms.
	CalPollInterval time.Duration
	// CalTimeout bounds the total wait in AutoCalibrate. Default 1 s.
	CalTimeout time.Duration
}

// Device wraps an I2C connection to a DRV2605L. The software holds no cached
// register state; every status query re-reads the device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg         Config
	motor       MotorType
	initialized bool

	w [2]byte // reuse buffers to avoid allocations
	r [1]byte
}

// New creates a new DRV2605L connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not
// touch the device.
func New(bus drivers.I2C, cfgs ...Config) *Device {
	d := &Device{
		bus:     bus,
		Address: AddressDefault,
	}
	if len(cfgs) > 0 {
		c := cfgs[0]
		if c.Address != 0 {
			d.Address = c.Address
		}
		d.cfg = c
	}
	if d.cfg.CalPollInterval <= 0 {
		d.cfg.CalPollInterval = 10 * time.Millisecond
	}
	if d.cfg.CalTimeout <= 0 {
		d.cfg.CalTimeout = time.Second
	}
	return d
}

// writeReg writes a single byte to a register.
func (d *Device) writeReg(reg, value byte) error {
	d.w[0] = reg
	d.w[1] = value
	return d.bus.Tx(d.Address, d.w[:2], nil)
}

// readReg reads a single byte from a register.
func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

// ValidEffect reports whether id is a playable library effect.
func ValidEffect(id uint8) bool {
	return mathx.Between(id, EffectMin, EffectMax)
}

// Configure initialises the device for the given motor type. The first
// status-register read doubles as a communication probe; its failure is
// returned as-is so callers can distinguish a missing device from a bad
// argument. A second call re-runs the full sequence.
func (d *Device) Configure(motor MotorType) error {
	d.motor = motor

	// Communication probe.
	if _, err := d.readReg(regStatus); err != nil {
		d.initialized = false
		return err
	}

	// Exit standby.
	if err := d.writeReg(regMode, modeInternalTrigger); err != nil {
		return err
	}

	// Library and feedback selection per motor topology.
	lib := byte(libERMA)
	fb := byte(feedbackERM)
	if motor == MotorLRA {
		lib = libLRA
		fb = feedbackLRA
	}
	if err := d.writeReg(regLibrary, lib); err != nil {
		return err
	}
	if err := d.writeReg(regFeedback, fb); err != nil {
		return err
	}

	// Voltage envelope is only programmed for ERM; LRA values come from
	// AutoCalibrate, which must follow a successful LRA Configure.
	if motor == MotorERM {
		if err := d.writeReg(regRatedVoltage, ratedVoltageERM); err != nil {
			return err
		}
		if err := d.writeReg(regClampVoltage, clampVoltageERM); err != nil {
			return err
		}
	}

	if err := d.writeReg(regControl1, control1Default); err != nil {
		return err
	}
	if err := d.writeReg(regControl2, control2Default); err != nil {
		return err
	}
	if err := d.writeReg(regControl3, control3Default); err != nil {
		return err
	}

	d.initialized = true
	return nil
}

// Initialized reports whether Configure has completed successfully.
func (d *Device) Initialized() bool { return d.initialized }

// Motor returns the configured motor topology.
func (d *Device) Motor() MotorType { return d.motor }

// PlayEffect programs a single library effect into sequencer slot 1,
// terminates the sequence and triggers playback. It does not wait for the
// hardware to finish vibrating.
func (d *Device) PlayEffect(effect uint8) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if !ValidEffect(effect) {
		return ErrInvalidEffect
	}
	if err := d.writeReg(regWaveSeq1, effect); err != nil {
		return err
	}
	if err := d.writeReg(regWaveSeq2, 0x00); err != nil {
		return err
	}
	return d.writeReg(regGo, goBit)
}

// PlaySequence programs up to MaxSequenceLength effects into successive
// sequencer slots and triggers playback once. Longer inputs are truncated to
// the first eight effects. Every id is validated before any register write,
// so a bad id never leaves a partial sequence mixed with stale slot data.
func (d *Device) PlaySequence(effects []uint8) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if len(effects) == 0 {
		return ErrEmptySequence
	}
	if len(effects) > MaxSequenceLength {
		effects = effects[:MaxSequenceLength]
	}
	for _, e := range effects {
		if !ValidEffect(e) {
			return ErrInvalidEffect
		}
	}
	for i, e := range effects {
		if err := d.writeReg(regWaveSeq1+byte(i), e); err != nil {
			return err
		}
	}
	// Terminator, only when a slot remains.
	if len(effects) < MaxSequenceLength {
		if err := d.writeReg(regWaveSeq1+byte(len(effects)), 0x00); err != nil {
			return err
		}
	}
	return d.writeReg(regGo, goBit)
}

// Stop clears the GO register. A waveform the sequencer has already latched
// may finish its current cycle; this is hardware timing, not a driver fault.
func (d *Device) Stop() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.writeReg(regGo, 0x00)
}

// Standby puts the device into its low-power standby mode.
func (d *Device) Standby() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.writeReg(regMode, modeStandbyBit)
}

// Wakeup restores internal-trigger active mode after Standby.
func (d *Device) Wakeup() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.writeReg(regMode, modeInternalTrigger)
}

// IsPlaying reads the GO register and reports whether playback is in
// progress. Best-effort: returns false when uninitialized or when the read
// fails, never an error.
func (d *Device) IsPlaying() bool {
	if !d.initialized {
		return false
	}
	v, err := d.readReg(regGo)
	if err != nil {
		return false
	}
	return v&goBit != 0
}

// Status reads and decodes the STATUS register.
func (d *Device) Status() (StatusBits, error) {
	v, err := d.readReg(regStatus)
	return StatusBits(v), err
}

// Reset writes the mode-register reset bit and re-probes the device. The
// part needs a moment to reload OTP defaults before it ACKs again.
func (d *Device) Reset() error {
	if err := d.writeReg(regMode, modeResetBit); err != nil {
		return err
	}
	d.initialized = false
	time.Sleep(2 * time.Millisecond)
	_, err := d.readReg(regStatus)
	return err
}

// AutoCalibrate runs the device's auto-calibration engine. Only meaningful
// for LRA motors; it derives rated-voltage, overdrive and back-EMF values
// that Configure intentionally leaves untouched for LRA. Polls the GO bit
// at CalPollInterval up to CalTimeout, checks the diagnostic result and
// restores internal-trigger mode on success.
func (d *Device) AutoCalibrate() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if d.motor != MotorLRA {
		return ErrUnsupported
	}

	if err := d.writeReg(regMode, modeAutoCalibration); err != nil {
		return err
	}
	if err := d.writeReg(regGo, goBit); err != nil {
		return err
	}

	deadline := time.Now().Add(d.cfg.CalTimeout)
	for {
		time.Sleep(d.cfg.CalPollInterval)
		v, err := d.readReg(regGo)
		if err != nil {
			return err
		}
		if v&goBit == 0 {
			break
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
	}

	st, err := d.Status()
	if err != nil {
		return err
	}
	if st.Has(StatusDiagResult) {
		return ErrCalibration
	}
	return d.writeReg(regMode, modeInternalTrigger)
}
