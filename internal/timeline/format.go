package timeline

import (
	"fmt"
	"math"
)

// Format selects how annotation labels render.
type Format string

const (
	// FormatFull renders "[start - end @ duration]".
	FormatFull Format = "full"
	// FormatRange renders "[start - end]".
	FormatRange Format = "range"
	// FormatShort renders "[start]".
	FormatShort Format = "short"
)

// ParseFormat validates a format name against the closed set of known
// formats.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatFull, FormatRange, FormatShort:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (want full, range, or short)", s)
}

// Stamp renders an absolute offset in minutes as HH:MM:SS. The offset
// floors to whole seconds; the hour field grows without wrapping.
func Stamp(minutes float64) string {
	secs := int64(math.Floor(minutes * 60))
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// DurationStamp renders a span in minutes as MM:SS, floored to whole
// seconds.
func DurationStamp(minutes float64) string {
	secs := int64(math.Floor(minutes * 60))
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Label renders one annotation for a section starting at start minutes
// and lasting duration minutes. The end offset is summed in minutes
// before rendering, so its stamp floors exactly once.
func Label(start, duration float64, f Format) string {
	switch f {
	case FormatRange:
		return fmt.Sprintf("[%s - %s]", Stamp(start), Stamp(start+duration))
	case FormatShort:
		return fmt.Sprintf("[%s]", Stamp(start))
	default:
		return fmt.Sprintf("[%s - %s @ %s]", Stamp(start), Stamp(start+duration), DurationStamp(duration))
	}
}
