package codec

import "errors"

// ErrPacketTooLarge is returned when an inbound frame's declared length
// exceeds MaxFrameSize (§4.4).
var ErrPacketTooLarge = errors.New("codec: packet too large")

// ErrRateExceeded is returned when a connection exceeds its configured
// packets/second or bytes/second cap (§4.4, §7 RateError).
var ErrRateExceeded = errors.New("codec: rate limit exceeded")

// ErrUnknownPacketInNonPlayPhase is a protocol error: unknown ids are only
// tolerated in the Play phase (§3, §4.3).
var ErrUnknownPacketInNonPlayPhase = errors.New("codec: unknown packet id outside play phase")

// MaxFrameSize is the hard cap on an inbound frame's length, before
// decompression (§4.4).
const MaxFrameSize = 2 * 1024 * 1024
