// cmd/boardtest/main.go
//
// Hardware bring-up for the haptic controller board: probes the DRV2605L,
// prints its status register, then cycles through a handful of effects and
// a few patterns so the motor can be felt on the bench.
package main

import (
	"time"

	"github.com/Xavialess/Stride/drivers/drv2605l"
	"github.com/Xavialess/Stride/platform"
	"github.com/Xavialess/Stride/x/fmtx"
)

// ---------- Configuration ----------

const (
	// Give USB CDC time to enumerate before printing.
	bootDelay = 3 * time.Second

	// Dwell between played effects.
	stepDelay = 800 * time.Millisecond

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

// Effects worth feeling during bring-up.
var testEffects = []struct {
	id   uint8
	name string
}{
	{drv2605l.EffectStrongClick100, "strong click"},
	{drv2605l.EffectSharpClick100, "sharp click"},
	{drv2605l.EffectSoftBump100, "soft bump"},
	{drv2605l.EffectDoubleClick100, "double click"},
	{drv2605l.EffectStrongBuzz100, "strong buzz"},
	{drv2605l.EffectRampUpLongSmooth1, "ramp up"},
	{drv2605l.EffectRampDownLongSmooth1, "ramp down"},
}

var testPatterns = [][]uint8{
	{drv2605l.EffectSharpClick100},
	{drv2605l.EffectStrongBuzz100, drv2605l.EffectStrongBuzz100},
	{drv2605l.EffectRampUpShortSmooth1, drv2605l.EffectStrongClick100},
	{drv2605l.EffectSoftBump100, drv2605l.EffectSoftBump60},
}

func main() {
	time.Sleep(bootDelay)
	println("[boardtest] haptic bring-up")

	dev := drv2605l.New(platform.DefaultI2C())

	// Probe first: a wiring fault shows up here, not mid-sequence.
	st, err := dev.Status()
	if err != nil {
		println("[boardtest] status probe failed:", err.Error())
		println("[boardtest] check SDA/SCL wiring and the 0x5A address strap")
		return
	}
	println(fmtx.Sprintf("[boardtest] status=0x%x device_id=%d", byte(st), st.DeviceID()))
	if st.Has(drv2605l.StatusOverTemp) {
		println("[boardtest] WARNING: over-temperature flag set")
	}
	if st.Has(drv2605l.StatusOCDetect) {
		println("[boardtest] WARNING: over-current flag set")
	}

	if err := dev.Configure(drv2605l.MotorERM); err != nil {
		println("[boardtest] configure failed:", err.Error())
		return
	}
	println("[boardtest] configured for ERM, starting playback loop")

	cycle := 0
	for {
		cycle++
		println(fmtx.Sprintf("[boardtest] --- cycle %d ---", cycle))

		for _, e := range testEffects {
			println(fmtx.Sprintf("[boardtest] effect %d (%s)", e.id, e.name))
			if err := dev.PlayEffect(e.id); err != nil {
				println("[boardtest] play failed:", err.Error())
			}
			waitIdle(dev)
			time.Sleep(stepDelay)
		}

		for i, seq := range testPatterns {
			println(fmtx.Sprintf("[boardtest] pattern %d (%d effects)", i, len(seq)))
			if err := dev.PlaySequence(seq); err != nil {
				println("[boardtest] sequence failed:", err.Error())
			}
			waitIdle(dev)
			time.Sleep(stepDelay)
		}

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			break
		}
	}

	_ = dev.Standby()
	println("[boardtest] done")
}

// waitIdle polls the GO bit until playback finishes, bounded to 3s.
func waitIdle(dev *drv2605l.Device) {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if !dev.IsPlaying() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	println("[boardtest] playback did not finish, stopping")
	_ = dev.Stop()
}
