package logic

import "time"

// Ticks is a reading of a free-running millisecond counter. It wraps to zero
// after 2^32 ms (about 49.7 days).
type Ticks uint32

// Elapsed returns the time from one counter reading to a later one.
// Unsigned subtraction is taken modulo 2^32, so the result stays correct
// when the counter wrapped between the two readings.
func Elapsed(from, to Ticks) time.Duration {
	return time.Duration(to-from) * time.Millisecond
}
