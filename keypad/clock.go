package keypad

import "time"

// Clock returns a monotonic millisecond counter. The counter wraps modulo
// 2^32; compare readings with TicksDiff, never with < or >.
type Clock func() uint32

var epoch = time.Now()

// Ticks is the default Clock: milliseconds since the process started,
// wrapping after about 49.7 days.
func Ticks() uint32 {
	return uint32(time.Since(epoch).Milliseconds())
}

// TicksDiff returns the signed distance a-b in milliseconds, correct across
// a wrap as long as the readings are less than 2^31 ms apart.
func TicksDiff(a, b uint32) int32 {
	return int32(a - b)
}

// TicksAdd offsets a reading by delta milliseconds, wrapping.
func TicksAdd(t uint32, delta int32) uint32 {
	return t + uint32(delta)
}
