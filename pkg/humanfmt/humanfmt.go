// Package humanfmt provides human-readable formatting for byte sizes, counts,
// durations and line rates used in log events.
package humanfmt

import (
	"fmt"
	"strconv"
	"time"
)

// Binary (IEC) units for bytes.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

type unit struct {
	size   float64
	suffix string
}

var byteUnits = []unit{
	{TiB, "TiB"},
	{GiB, "GiB"},
	{MiB, "MiB"},
	{KiB, "KiB"},
}

var countUnits = []unit{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// Bytes formats a byte count using IEC binary units, e.g. "1.23 GiB".
func Bytes(b int64) string {
	for _, u := range byteUnits {
		if b >= int64(u.size) {
			return fmt.Sprintf("%.2f %s", float64(b)/u.size, u.suffix)
		}
	}
	return fmt.Sprintf("%d B", b)
}

// Count formats a count with decimal suffixes, e.g. "1.23M", "456.00K", "789".
func Count(n int64) string {
	for _, u := range countUnits {
		if n >= int64(u.size) {
			return fmt.Sprintf("%.2f%s", float64(n)/u.size, u.suffix)
		}
	}
	return strconv.FormatInt(n, 10)
}

// CountUint64 is like Count but for uint64.
func CountUint64(n uint64) string {
	return Count(int64(n))
}

// Duration formats d compactly, e.g. "1.23s", "45.6ms", "1m30s", "2h15m".
func Duration(d time.Duration) string {
	switch {
	case d < 0:
		return d.String()
	case d >= time.Hour:
		return wholeUnits(d, time.Hour, time.Minute, "h", "m")
	case d >= time.Minute:
		return wholeUnits(d, time.Minute, time.Second, "m", "s")
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

func wholeUnits(d, major, minor time.Duration, majorSuffix, minorSuffix string) string {
	hi := d / major
	lo := (d % major) / minor
	if lo == 0 {
		return fmt.Sprintf("%d%s", hi, majorSuffix)
	}
	return fmt.Sprintf("%d%s%d%s", hi, majorSuffix, lo, minorSuffix)
}

// Rate formats n items over d as a per-second rate, e.g. "12.50K lines/s".
func Rate(n int64, d time.Duration, noun string) string {
	if d <= 0 {
		return "∞ " + noun + "/s"
	}
	perSec := float64(n) / d.Seconds()
	for _, u := range countUnits {
		if perSec >= u.size {
			return fmt.Sprintf("%.2f%s %s/s", perSec/u.size, u.suffix, noun)
		}
	}
	return fmt.Sprintf("%.0f %s/s", perSec, noun)
}
