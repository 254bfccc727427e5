package drv2605l

import (
	"context"
	"time"

	"github.com/Xavialess/Stride/x/ramp"
)

// Real-time playback (RTP). In RTP mode the device drives the motor directly
// from the RTP input register instead of the waveform sequencer, which allows
// software-defined amplitude envelopes.

// EnterRTP switches to real-time playback mode with the amplitude at zero.
func (d *Device) EnterRTP() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if err := d.writeReg(regRTPInput, 0x00); err != nil {
		return err
	}
	return d.writeReg(regMode, modeRealtimePlayback)
}

// SetRTPAmplitude writes the RTP input register. With the default unsigned
// data format, 0x00 is off and 0xFF is full drive.
func (d *Device) SetRTPAmplitude(level uint8) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.writeReg(regRTPInput, level)
}

// ExitRTP zeroes the amplitude and restores internal-trigger mode.
func (d *Device) ExitRTP() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if err := d.writeReg(regRTPInput, 0x00); err != nil {
		return err
	}
	return d.writeReg(regMode, modeInternalTrigger)
}

// RampAmplitude drives a linear RTP envelope from the current level to
// target over the given duration. It enters RTP mode, steps the amplitude,
// and exits RTP mode before returning. Cancelling ctx stops the ramp early;
// RTP mode is still exited. Register write failures during the ramp are
// dropped (the next step overwrites the level anyway); the mode transitions
// report theirs.
func (d *Device) RampAmplitude(ctx context.Context, from, target uint8, duration time.Duration, steps uint16) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if err := d.EnterRTP(); err != nil {
		return err
	}
	if err := d.SetRTPAmplitude(from); err != nil {
		_ = d.ExitRTP()
		return err
	}

	tick := func(dur time.Duration) bool {
		t := time.NewTimer(dur)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			return true
		}
	}
	ramp.StartLinear(uint16(from), uint16(target), 0xFF,
		uint32(duration/time.Millisecond), steps, tick,
		func(level uint16) {
			_ = d.SetRTPAmplitude(uint8(level))
		})

	if err := d.ExitRTP(); err != nil {
		return err
	}
	return ctx.Err()
}
