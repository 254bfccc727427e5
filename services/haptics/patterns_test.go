package haptics

import (
	"bytes"
	"testing"
)

func TestPatternTableComplete(t *testing.T) {
	for id := uint8(0); id < PatternCount; id++ {
		seq, ok := Pattern(id)
		if !ok {
			t.Fatalf("pattern %d missing", id)
		}
		if len(seq) == 0 {
			t.Fatalf("pattern %d empty", id)
		}
		for _, e := range seq {
			if e < 1 || e > 123 {
				t.Fatalf("pattern %d has out-of-range effect %d", id, e)
			}
		}
	}
}

func TestPatternKnownSequences(t *testing.T) {
	cases := []struct {
		id   uint8
		want []uint8
	}{
		{PatternNotification, []uint8{4}},
		{PatternAlert, []uint8{14, 14}},
		{PatternSuccess, []uint8{87, 1}},
		{PatternError, []uint8{1, 1, 1}},
		{PatternButtonPress, []uint8{5}},
		{PatternLongPress, []uint8{7, 1}},
		{PatternDoubleTap, []uint8{10}},
		{PatternHeartbeat, []uint8{7, 8}},
		{PatternRampUp, []uint8{83}},
		{PatternRampDown, []uint8{71}},
		{PatternPulse, []uint8{52}},
		{PatternBuzz, []uint8{14}},
	}
	for _, tc := range cases {
		seq, ok := Pattern(tc.id)
		if !ok {
			t.Fatalf("pattern %d missing", tc.id)
		}
		if !bytes.Equal(seq, tc.want) {
			t.Fatalf("pattern %d = %v want %v", tc.id, seq, tc.want)
		}
	}
}

func TestPatternOutOfRange(t *testing.T) {
	for _, id := range []uint8{PatternCount, 100, 255} {
		if seq, ok := Pattern(id); ok || seq != nil {
			t.Fatalf("pattern %d: got (%v,%v) want (nil,false)", id, seq, ok)
		}
	}
}

func TestPatternReturnsCopy(t *testing.T) {
	a, _ := Pattern(PatternAlert)
	a[0] = 99
	b, _ := Pattern(PatternAlert)
	if b[0] == 99 {
		t.Fatal("pattern table mutated through returned slice")
	}
}
