package captions

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts a WebVTT timestamp (HH:MM:SS.mmm or MM:SS.mmm) to
// fractional seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	clock, millisText, found := strings.Cut(value, ".")
	if !found {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	parts := strings.Split(clock, ":")
	var hours, minutes, seconds int
	var errH, errM, errS error
	switch len(parts) {
	case 3:
		hours, errH = strconv.Atoi(parts[0])
		minutes, errM = strconv.Atoi(parts[1])
		seconds, errS = strconv.Atoi(parts[2])
	case 2:
		minutes, errM = strconv.Atoi(parts[0])
		seconds, errS = strconv.Atoi(parts[1])
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	millis, errMS := strconv.Atoi(millisText)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
