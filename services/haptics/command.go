package haptics

import (
	"github.com/Xavialess/Stride/drivers/drv2605l"
	"github.com/Xavialess/Stride/errcode"
	"github.com/Xavialess/Stride/x/fmtx"
)

// Command selectors (byte 0 of a raw command buffer). The link router
// reserves 0x01..0x04 for this protocol; any other leading byte is routed
// elsewhere and never reaches Decode in production.
const (
	cmdPlayEffect   = 0x01
	cmdPlaySequence = 0x02
	cmdPlayPattern  = 0x03
	cmdStop         = 0x04
)

// MaxSequence is the decoder-side cap on sequence length. The driver
// truncates to its eight hardware slots later; the decoder only bounds the
// untrusted input.
const MaxSequence = 32

// Kind discriminates playback requests.
type Kind uint8

const (
	KindSingleEffect Kind = iota
	KindSequence
	KindStop
	// KindCustom is reserved. The worker logs and skips it.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindSingleEffect:
		return "single_effect"
	case KindSequence:
		return "sequence"
	case KindStop:
		return "stop"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Request is the unit of work queued between the decoder and the playback
// worker. Effects is unused for Stop.
type Request struct {
	Kind    Kind
	Effects []uint8
}

// Decode maps a raw command buffer to a validated playback request.
//
// Grammar:
//
//	0x01 <effect>             single effect
//	0x02 <count> <effects...> sequence of count effects
//	0x03 <pattern>            predefined pattern (0..11)
//	0x04                      stop (trailing bytes ignored)
//
// Decode is pure and non-blocking; it is safe to call from the goroutine
// that owns the raw transport buffer. The returned Effects slice never
// aliases buf. On failure no request is produced and the caller is expected
// to log and discard the buffer.
func Decode(buf []byte) (Request, error) {
	if len(buf) < 1 {
		return Request{}, &errcode.E{C: errcode.EmptyCommand, Op: "haptics.decode"}
	}

	switch buf[0] {
	case cmdPlayEffect:
		if len(buf) < 2 {
			return Request{}, truncated("effect id missing")
		}
		if !drv2605l.ValidEffect(buf[1]) {
			return Request{}, invalidEffect(buf[1])
		}
		return Request{Kind: KindSingleEffect, Effects: []uint8{buf[1]}}, nil

	case cmdPlaySequence:
		if len(buf) < 2 {
			return Request{}, truncated("sequence count missing")
		}
		n := int(buf[1])
		if len(buf) < 2+n {
			return Request{}, truncated(fmtx.Sprintf("need %d effect bytes, have %d", n, len(buf)-2))
		}
		// Bound the request; the head of an oversized sequence is kept.
		if n > MaxSequence {
			n = MaxSequence
		}
		effects := make([]uint8, n)
		for i := 0; i < n; i++ {
			e := buf[2+i]
			if !drv2605l.ValidEffect(e) {
				return Request{}, invalidEffect(e)
			}
			effects[i] = e
		}
		return Request{Kind: KindSequence, Effects: effects}, nil

	case cmdPlayPattern:
		if len(buf) < 2 {
			return Request{}, truncated("pattern id missing")
		}
		seq, ok := Pattern(buf[1])
		if !ok {
			return Request{}, &errcode.E{
				C:   errcode.InvalidPattern,
				Op:  "haptics.decode",
				Msg: fmtx.Sprintf("pattern id %d", buf[1]),
			}
		}
		return Request{Kind: KindSequence, Effects: seq}, nil

	case cmdStop:
		return Request{Kind: KindStop}, nil

	default:
		return Request{}, &errcode.E{
			C:   errcode.Unsupported,
			Op:  "haptics.decode",
			Msg: fmtx.Sprintf("command 0x%x", buf[0]),
		}
	}
}

func truncated(msg string) error {
	return &errcode.E{C: errcode.Truncated, Op: "haptics.decode", Msg: msg}
}

func invalidEffect(id uint8) error {
	return &errcode.E{
		C:   errcode.InvalidEffect,
		Op:  "haptics.decode",
		Msg: fmtx.Sprintf("effect id %d", id),
	}
}
