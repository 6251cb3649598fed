package dialface

// HandleSource selects the time field a rotating indicator follows.
type HandleSource uint8

const (
	SourceUnknown HandleSource = iota // unrecognized names: constant zero value
	SourceMonth
	SourceDay
	SourceDay0 // first digit of a two-digit day wheel
	SourceDay1 // second digit of a two-digit day wheel
	SourceHour
	SourceMinute
	SourceSecond
)

// ParseHandleSource maps a descriptor source name to a HandleSource.
// Unknown names yield SourceUnknown (the indicator stays at its minimum
// angle rather than failing the load).
func ParseHandleSource(s string) HandleSource {
	switch s {
	case "month":
		return SourceMonth
	case "day":
		return SourceDay
	case "day0":
		return SourceDay0
	case "day1":
		return SourceDay1
	case "hour":
		return SourceHour
	case "minute":
		return SourceMinute
	case "second":
		return SourceSecond
	default:
		return SourceUnknown
	}
}

// HandleRange holds the value-to-angle mapping bounds for one indicator.
// Angles are in degrees.
type HandleRange struct {
	MinValue float64
	MaxValue float64
	MinAngle float64
	MaxAngle float64
}

// DefaultRange returns the built-in range for a source. Descriptors may
// override any field individually.
func (s HandleSource) DefaultRange() HandleRange {
	switch s {
	case SourceMonth:
		return HandleRange{1, 12, 0, 360}
	case SourceDay, SourceDay0, SourceDay1:
		return HandleRange{1, 31, 0, 360}
	case SourceHour:
		return HandleRange{0, 12, 0, 360}
	case SourceMinute, SourceSecond:
		return HandleRange{0, 60, 0, 360}
	default:
		return HandleRange{0, 100, 0, 360}
	}
}

// Value extracts the stepped indicator value from the context: integral per
// field, except the hour hand which always advances with the minutes.
func (s HandleSource) Value(c *Context) float64 {
	switch s {
	case SourceMonth:
		return float64(c.Month - 1)
	case SourceDay, SourceDay0:
		return float64(c.Day - 1)
	case SourceDay1:
		return float64(c.Day)
	case SourceHour:
		return float64(c.Hour%12) + float64(c.Minute)/60
	case SourceMinute:
		return float64(c.Minute)
	case SourceSecond:
		return float64(c.Second)
	default:
		return 0
	}
}

// SmoothValue extracts the continuously interpolated indicator value: each
// field advances through the fraction of the next finer unit.
func (s HandleSource) SmoothValue(c *Context) float64 {
	switch s {
	case SourceMonth:
		return float64(c.Month) + float64(c.Day)/31 - 1
	case SourceDay, SourceDay0:
		return float64(c.Day) + float64(c.Hour)/24 - 1
	case SourceDay1:
		return float64(c.Day) + float64(c.Hour)/24
	case SourceHour:
		return float64(c.Hour%12) + float64(c.Minute)/60 + float64(c.Second)/3600
	case SourceMinute:
		return float64(c.Minute) + float64(c.Second)/60
	case SourceSecond:
		return float64(c.Second) + float64(c.Millisecond)/1000
	default:
		return 0
	}
}

// AngleTenths computes the rotation in tenths of a degree, the rotation
// primitive's native precision.
//
// The numerator is (MinValue + value), NOT (value - MinValue). For any range
// with a non-zero minimum this double-counts the minimum; it is nonetheless
// the deployed behavior every shipped face was authored against, so it is
// kept bit-for-bit. See the suspect-invariant test in handle_test.go before
// touching this.
func AngleTenths(r HandleRange, value float64) int {
	if r.MaxValue == 0 {
		return int(r.MinAngle * 10)
	}
	return int((r.MinAngle + ((r.MinValue+value)/r.MaxValue)*r.MaxAngle) * 10)
}
