// cmd/hapticctl/main.go
//
// Host-side driver for the haptic controller: loads a YAML scenario, opens
// the serial link to the device and plays the script step by step.
//
// Example scenario:
//
//	device:
//	  port: /dev/ttyUSB0
//	  baud: 115200
//	script:
//	  - pattern: 0
//	  - wait_ms: 500
//	  - sequence: [1, 14, 1]
//	  - effect: 47
//	    wait_ms: 200
//	  - stop: true
package main

import (
	"log"
	"os"
	"time"

	"github.com/goburrow/serial"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: hapticctl <scenario.yaml>")
	}

	// --------------------
	// Load + validate scenario
	// --------------------

	sc, err := Load(os.Args[1])
	if err != nil {
		log.Fatalf("scenario load failed: %v", err)
	}
	if err := Validate(sc); err != nil {
		log.Fatalf("scenario validation failed: %v", err)
	}

	// --------------------
	// Open the device link
	// --------------------

	port, err := serial.Open(&serial.Config{
		Address:  sc.Device.Port,
		BaudRate: sc.Device.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  time.Second,
	})
	if err != nil {
		log.Fatalf("serial open failed (port=%s): %v", sc.Device.Port, err)
	}
	defer port.Close()

	log.Printf("connected to %s at %d baud, %d steps", sc.Device.Port, sc.Device.Baud, len(sc.Script))

	// --------------------
	// Play the script
	// --------------------

	for i := range sc.Script {
		st := &sc.Script[i]
		if buf := Encode(st); buf != nil {
			if _, err := port.Write(buf); err != nil {
				log.Fatalf("step %d: write failed: %v", i, err)
			}
			log.Printf("step %d: sent % x", i, buf)
		}
		if st.WaitMs > 0 {
			time.Sleep(time.Duration(st.WaitMs) * time.Millisecond)
		}
	}

	log.Print("scenario complete")
}
