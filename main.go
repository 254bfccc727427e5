package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xavialess/Stride/bus"
	"github.com/Xavialess/Stride/drivers/drv2605l"
	"github.com/Xavialess/Stride/platform"
	"github.com/Xavialess/Stride/services/config"
	"github.com/Xavialess/Stride/services/haptics"
	"github.com/Xavialess/Stride/services/heartbeat"
	"github.com/Xavialess/Stride/services/link"
	"github.com/Xavialess/Stride/services/serial"
	"github.com/Xavialess/Stride/types"
)

const (
	deviceID = "pico"

	// Pico on-board LED, used when the heartbeat config names no pin.
	defaultLEDPin = 25
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	b := bus.NewBus(16)
	println("[main] publishing embedded config …")
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	// Pick up the retained haptics section for driver bring-up.
	hapticsCfg := readConfig[types.HapticsConfig](b, "haptics")

	motor := drv2605l.MotorERM
	if hapticsCfg.Motor == "lra" {
		motor = drv2605l.MotorLRA
	}

	println("[main] configuring motor driver …")
	dev := drv2605l.New(platform.DefaultI2C())
	hapticsOK := true
	if err := dev.Configure(motor); err != nil {
		println("[main] driver init failed:", err.Error())
		println("[main] continuing without haptic feedback")
		hapticsOK = false
	} else if motor == drv2605l.MotorLRA {
		// LRA timing depends on the measured resonance; calibration is not
		// optional for that topology.
		if err := dev.AutoCalibrate(); err != nil {
			println("[main] autocalibration failed:", err.Error())
			println("[main] continuing without haptic feedback")
			hapticsOK = false
		}
	}

	hapticsSvc := haptics.New(dev, hapticsCfg.QueueDepth)
	hapticsSvc.Start(ctx, b.NewConnection("haptics"))
	if hapticsOK {
		hapticsSvc.SignalReady()
	}

	println("[main] starting link …")
	go link.Start(ctx, b.NewConnection("link"), platform.DefaultLinkDial())

	println("[main] starting serial console …")
	serial.New(platform.DefaultUART()).Start(ctx, b.NewConnection("serial"))

	println("[main] starting heartbeat …")
	hbCfg := readConfig[types.HeartbeatConfig](b, "heartbeat")
	ledPin := defaultLEDPin
	if hbCfg.Pin > 0 {
		ledPin = hbCfg.Pin
	}
	hb := heartbeat.New(platform.DefaultPin(ledPin))
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("[main] heartbeat start failed:", err.Error())
	}

	println("[main] up")
	select {}
}

// readConfig waits briefly for one retained config section. A missing
// section just means defaults.
func readConfig[T any](b *bus.Bus, section string) T {
	conn := b.NewConnection("main")
	defer conn.Disconnect()
	sub := conn.Subscribe(bus.T("config", section))
	defer conn.Unsubscribe(sub)

	var cfg T
	select {
	case msg := <-sub.Channel():
		raw, err := json.Marshal(msg.Payload)
		if err == nil {
			_ = json.Unmarshal(raw, &cfg)
		}
	case <-time.After(time.Second):
		println("[main] no", section, "config, using defaults")
	}
	return cfg
}
