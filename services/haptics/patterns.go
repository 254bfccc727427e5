package haptics

import "github.com/Xavialess/Stride/drivers/drv2605l"

// Predefined pattern ids (selector 0x03 payload).
const (
	PatternNotification uint8 = iota
	PatternAlert
	PatternSuccess
	PatternError
	PatternButtonPress
	PatternLongPress
	PatternDoubleTap
	PatternHeartbeat
	PatternRampUp
	PatternRampDown
	PatternPulse
	PatternBuzz

	PatternCount = 12
)

// patternTable maps pattern ids to effect sequences. The groupings are a
// product decision (how each event should feel), reproduced from the
// original catalog; they are not derived from hardware.
var patternTable = [PatternCount][]uint8{
	PatternNotification: {drv2605l.EffectSharpClick100},
	PatternAlert:        {drv2605l.EffectStrongBuzz100, drv2605l.EffectStrongBuzz100},
	PatternSuccess:      {drv2605l.EffectRampUpShortSmooth1, drv2605l.EffectStrongClick100},
	PatternError:        {drv2605l.EffectStrongClick100, drv2605l.EffectStrongClick100, drv2605l.EffectStrongClick100},
	PatternButtonPress:  {drv2605l.EffectSharpClick60},
	PatternLongPress:    {drv2605l.EffectSoftBump100, drv2605l.EffectStrongClick100},
	PatternDoubleTap:    {drv2605l.EffectDoubleClick100},
	PatternHeartbeat:    {drv2605l.EffectSoftBump100, drv2605l.EffectSoftBump60},
	PatternRampUp:       {drv2605l.EffectRampUpLongSmooth1},
	PatternRampDown:     {drv2605l.EffectRampDownLongSmooth1},
	PatternPulse:        {drv2605l.EffectPulsingStrong1},
	PatternBuzz:         {drv2605l.EffectStrongBuzz100},
}

// Pattern returns a copy of the effect sequence for id, or (nil, false) when
// id is out of range.
func Pattern(id uint8) ([]uint8, bool) {
	if int(id) >= PatternCount {
		return nil, false
	}
	return append([]uint8(nil), patternTable[id]...), true
}
