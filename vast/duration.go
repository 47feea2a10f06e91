package vast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxClockHours keeps the hour component inside time.Duration.
const maxClockHours = int64(math.MaxInt64/time.Hour) - 1

// ParseDuration parses a VAST clock value, HH:MM:SS or HH:MM:SS.mmm.
func ParseDuration(s string) (time.Duration, error) {
	clock := strings.TrimSpace(s)
	if clock == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var millis int64
	if idx := strings.Index(clock, "."); idx != -1 {
		frac := clock[idx+1:]
		clock = clock[:idx]
		if frac == "" || len(frac) > 3 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		ms, err := strconv.ParseUint(frac, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		// .5 is half a second, not 5ms
		for i := len(frac); i < 3; i++ {
			ms *= 10
		}
		millis = int64(ms)
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var hms [3]int64
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		hms[i] = int64(v)
	}
	if hms[0] > maxClockHours || hms[1] > 59 || hms[2] > 59 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	return time.Duration(hms[0])*time.Hour +
		time.Duration(hms[1])*time.Minute +
		time.Duration(hms[2])*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// Offset is a position within a linear creative, either a clock value or a percentage of its duration.
type Offset struct {
	Raw       string
	Duration  time.Duration
	Percent   float64
	IsPercent bool
}

// IsZero reports whether no offset was set.
func (o Offset) IsZero() bool {
	return o.Raw == ""
}

// ParseOffset parses a skipoffset style value.
func ParseOffset(s string) (Offset, error) {
	raw := strings.TrimSpace(s)
	if pct, ok := strings.CutSuffix(raw, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > 100 {
			return Offset{}, fmt.Errorf("invalid offset %q", s)
		}
		return Offset{Raw: raw, Percent: v, IsPercent: true}, nil
	}

	d, err := ParseDuration(raw)
	if err != nil {
		return Offset{}, fmt.Errorf("invalid offset %q", s)
	}
	return Offset{Raw: raw, Duration: d}, nil
}
