package timex

import "time"

// NowMs returns Unix milliseconds as int64. State payloads carry this as
// their "ts_ms" field.
func NowMs() int64 { return time.Now().UnixMilli() }
