package dialface

import "time"

// TimeTuple is a synthetic date/time adopted verbatim by Context.Set.
// Weekday is 0 for Monday through 6 for Sunday. Millisecond is optional and
// defaults to zero. Field values outside calendar ranges are a caller
// contract violation, not a recoverable error.
type TimeTuple struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Weekday     int
	Yearday     int
	Millisecond int
}

// Context is a mutable snapshot of the current date/time, updated once per
// tick by whoever drives the renderer. Created once per session; value
// lifetime, never torn down.
type Context struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
	Weekday     int // 0 = Monday ... 6 = Sunday
	Yearday     int

	prevTick time.Time
}

// Set updates the context. With a nil tuple it samples the real clock;
// otherwise it adopts the tuple verbatim (synthetic mode, used for
// reproducible snapshots and previews).
//
// The wall clock has one-second resolution as far as faces are concerned, so
// in real-clock mode milliseconds are synthesized: the monotonic delta since
// the previous Set accumulates into Millisecond, which resets to zero
// whenever the integer second advances.
func (c *Context) Set(tuple *TimeTuple) {
	if tuple != nil {
		c.Year = tuple.Year
		c.Month = tuple.Month
		c.Day = tuple.Day
		c.Hour = tuple.Hour
		c.Minute = tuple.Minute
		c.Second = tuple.Second
		c.Weekday = tuple.Weekday
		c.Yearday = tuple.Yearday
		c.Millisecond = tuple.Millisecond
		c.prevTick = time.Time{}
		return
	}

	now := time.Now()
	prevSecond := c.Second

	c.Year = now.Year()
	c.Month = int(now.Month())
	c.Day = now.Day()
	c.Hour = now.Hour()
	c.Minute = now.Minute()
	c.Second = now.Second()
	c.Weekday = (int(now.Weekday()) + 6) % 7 // time.Weekday is Sunday-based
	c.Yearday = now.YearDay()

	if !c.prevTick.IsZero() {
		c.Millisecond += int(now.Sub(c.prevTick) / time.Millisecond)
	}
	c.prevTick = now

	if prevSecond != c.Second {
		c.Millisecond = 0
	}
}
