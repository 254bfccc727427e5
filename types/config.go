package types

// Per-service configuration published on "config/<svc>" as retained bus
// messages. Field names match the embedded JSON document.

type HapticsConfig struct {
	// Motor topology: "erm" (default) or "lra".
	Motor string `json:"motor,omitempty"`
	// PacingMs is the delay between dispatched playback requests.
	PacingMs int `json:"pacing_ms,omitempty"`
	// QueueDepth bounds pending playback requests.
	QueueDepth int `json:"queue_depth,omitempty"`
}

type LinkConfig struct {
	// Transport name registered with the link service ("uart" on device).
	Transport string `json:"transport,omitempty"`
	Baud      uint32 `json:"baud,omitempty"`
	// Reconnect backoff bounds.
	BackoffMinMs int `json:"backoff_min_ms,omitempty"`
	BackoffMaxMs int `json:"backoff_max_ms,omitempty"`
}

type SerialConfig struct {
	Baud uint32 `json:"baud,omitempty"`
	// MaxFrame clamps one published RX chunk (16..256 bytes).
	MaxFrame int `json:"max_frame,omitempty"`
	// IdleFlushMs flushes a partly filled RX buffer after inactivity.
	IdleFlushMs int `json:"idle_flush_ms,omitempty"`
}

type HeartbeatConfig struct {
	// IntervalS is the LED/status period in seconds, clamped to 1..3600.
	IntervalS int `json:"interval,omitempty"`
	// Pin is the status LED GPIO number.
	Pin int `json:"pin,omitempty"`
}
