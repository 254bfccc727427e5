// cmd/hapticctl/scenario.go
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Scenario struct {
	Device DeviceConfig `yaml:"device"`
	Script []Step       `yaml:"script"`
}

type DeviceConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Step is one scripted action. Exactly one of the command fields may be set;
// WaitMs applies after the command (or alone, as a pure delay).
type Step struct {
	Effect   *uint8  `yaml:"effect,omitempty"`
	Sequence []uint8 `yaml:"sequence,omitempty"`
	Pattern  *uint8  `yaml:"pattern,omitempty"`
	Stop     bool    `yaml:"stop,omitempty"`
	WaitMs   int     `yaml:"wait_ms,omitempty"`
}

// Wire selectors understood by the device firmware.
const (
	cmdPlayEffect   = 0x01
	cmdPlaySequence = 0x02
	cmdPlayPattern  = 0x03
	cmdStop         = 0x04

	effectMin    = 1
	effectMax    = 123
	patternCount = 12
	maxSequence  = 32
)

func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func Validate(sc *Scenario) error {
	if sc.Device.Port == "" {
		return fmt.Errorf("device.port is required")
	}
	if sc.Device.Baud == 0 {
		sc.Device.Baud = 115200
	}
	if len(sc.Script) == 0 {
		return fmt.Errorf("script is empty")
	}
	for i := range sc.Script {
		if err := validateStep(i, &sc.Script[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, st *Step) error {
	set := 0
	if st.Effect != nil {
		set++
		if *st.Effect < effectMin || *st.Effect > effectMax {
			return fmt.Errorf("step %d: effect %d out of range %d..%d", i, *st.Effect, effectMin, effectMax)
		}
	}
	if len(st.Sequence) > 0 {
		set++
		if len(st.Sequence) > maxSequence {
			return fmt.Errorf("step %d: sequence longer than %d", i, maxSequence)
		}
		for _, e := range st.Sequence {
			if e < effectMin || e > effectMax {
				return fmt.Errorf("step %d: sequence effect %d out of range", i, e)
			}
		}
	}
	if st.Pattern != nil {
		set++
		if *st.Pattern >= patternCount {
			return fmt.Errorf("step %d: pattern %d out of range 0..%d", i, *st.Pattern, patternCount-1)
		}
	}
	if st.Stop {
		set++
	}
	if set > 1 {
		return fmt.Errorf("step %d: more than one command set", i)
	}
	if set == 0 && st.WaitMs <= 0 {
		return fmt.Errorf("step %d: empty step", i)
	}
	return nil
}

// Encode turns a validated step into its wire form, or nil for a pure delay.
func Encode(st *Step) []byte {
	switch {
	case st.Effect != nil:
		return []byte{cmdPlayEffect, *st.Effect}
	case len(st.Sequence) > 0:
		out := make([]byte, 0, 2+len(st.Sequence))
		out = append(out, cmdPlaySequence, uint8(len(st.Sequence)))
		return append(out, st.Sequence...)
	case st.Pattern != nil:
		return []byte{cmdPlayPattern, *st.Pattern}
	case st.Stop:
		return []byte{cmdStop}
	default:
		return nil
	}
}
