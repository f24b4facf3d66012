package utils

import (
	"math"
	"time"
)

// TimestampLayout is how check times are shown to users
const TimestampLayout = "2006-01-02 15:04:05"

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// FormatTimestamp renders t in the given zone, or in local time when loc is nil
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimestampLayout)
}
