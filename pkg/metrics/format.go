package metrics

import (
	"math"
	"strconv"
	"time"
)

// DateTimeLayout is the medium date-time layout used for DateTime measures.
const DateTimeLayout = "Jan 2, 2006 3:04:05 PM"

// Placeholder is displayed for measures that carry no value.
const Placeholder = "-"

type scaleBand struct {
	limit   float64
	divisor float64
	suffix  string
}

// The p band keeps the 1e12 divisor of the t band.
var scaleBands = []scaleBand{
	{1e4, 1, ""},
	{1e7, 1e3, "k"},
	{1e10, 1e6, "m"},
	{1e13, 1e9, "g"},
	{1e16, 1e12, "t"},
	{1e19, 1e12, "p"},
	{1e22, 1e15, "e"},
	{1e25, 1e18, "z"},
}

var lastBand = scaleBand{math.Inf(1), 1e21, "y"}

// FormatScaled renders v as a truncated quotient with an order of
// magnitude suffix. The band is picked from |v|; the signed value is divided.
func FormatScaled(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	band := lastBand
	abs := math.Abs(v)
	for _, b := range scaleBands {
		if abs < b.limit {
			band = b
			break
		}
	}
	q := math.Trunc(v / band.divisor)
	if q == 0 {
		q = 0 // drop negative zero
	}
	return strconv.FormatFloat(q, 'f', 0, 64) + band.suffix
}

// FormatDuration renders a count of whole seconds as 45s, 2m5s, 1h2m5s or
// 1d1h0m0s. Higher units are never omitted once their threshold is crossed.
func FormatDuration(secs int64) string {
	s := strconv.FormatInt(secs%60, 10) + "s"
	if secs < 60 {
		return strconv.FormatInt(secs, 10) + "s"
	}
	m := strconv.FormatInt(secs/60%60, 10) + "m"
	if secs < 3600 {
		return m + s
	}
	h := strconv.FormatInt(secs/3600%24, 10) + "h"
	if secs < 86400 {
		return h + m + s
	}
	return strconv.FormatInt(secs/86400, 10) + "d" + h + m + s
}

// FormatDateTime renders t in the local zone with DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.Local().Format(DateTimeLayout)
}
