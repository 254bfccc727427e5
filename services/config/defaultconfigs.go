package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPico = `{
  "haptics": {
      "motor": "erm",
      "pacing_ms": 10,
      "queue_depth": 16
  },
  "link": {
      "transport": "uart",
      "baud": 115200,
      "backoff_min_ms": 250,
      "backoff_max_ms": 5000
  },
  "serial": {
      "baud": 115200,
      "max_frame": 128,
      "idle_flush_ms": 100
  },
  "heartbeat": {
      "interval": 2,
      "pin": 25
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
}
