// cmd/hapticctl/scenario_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func u8(v uint8) *uint8 { return &v }

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		step Step
		want []byte
	}{
		{"effect", Step{Effect: u8(47)}, []byte{0x01, 47}},
		{"sequence", Step{Sequence: []uint8{1, 14, 1}}, []byte{0x02, 3, 1, 14, 1}},
		{"pattern", Step{Pattern: u8(3)}, []byte{0x03, 3}},
		{"stop", Step{Stop: true}, []byte{0x04}},
		{"pure delay", Step{WaitMs: 100}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Encode(&tc.step); !bytes.Equal(got, tc.want) {
				t.Fatalf("Encode = % x, want % x", got, tc.want)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		sc   Scenario
	}{
		{"no port", Scenario{Script: []Step{{Stop: true}}}},
		{"empty script", Scenario{Device: DeviceConfig{Port: "/dev/ttyUSB0"}}},
		{"effect out of range", Scenario{
			Device: DeviceConfig{Port: "p"},
			Script: []Step{{Effect: u8(124)}},
		}},
		{"pattern out of range", Scenario{
			Device: DeviceConfig{Port: "p"},
			Script: []Step{{Pattern: u8(12)}},
		}},
		{"sequence bad effect", Scenario{
			Device: DeviceConfig{Port: "p"},
			Script: []Step{{Sequence: []uint8{1, 0}}},
		}},
		{"two commands in one step", Scenario{
			Device: DeviceConfig{Port: "p"},
			Script: []Step{{Effect: u8(1), Stop: true}},
		}},
		{"empty step", Scenario{
			Device: DeviceConfig{Port: "p"},
			Script: []Step{{}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(&tc.sc); err == nil {
				t.Fatal("want validation error")
			}
		})
	}
}

func TestValidateDefaultsBaud(t *testing.T) {
	sc := Scenario{
		Device: DeviceConfig{Port: "/dev/ttyUSB0"},
		Script: []Step{{Stop: true}},
	}
	if err := Validate(&sc); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sc.Device.Baud != 115200 {
		t.Fatalf("baud=%d want 115200", sc.Device.Baud)
	}
}

func TestLoadScenario(t *testing.T) {
	doc := `
device:
  port: /dev/ttyUSB0
  baud: 9600
script:
  - pattern: 0
  - wait_ms: 500
  - sequence: [1, 14, 1]
  - effect: 47
    wait_ms: 200
  - stop: true
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(sc); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sc.Device.Baud != 9600 {
		t.Fatalf("baud=%d", sc.Device.Baud)
	}
	if len(sc.Script) != 5 {
		t.Fatalf("steps=%d want 5", len(sc.Script))
	}
	if sc.Script[3].Effect == nil || *sc.Script[3].Effect != 47 || sc.Script[3].WaitMs != 200 {
		t.Fatalf("step 3 = %+v", sc.Script[3])
	}
}
