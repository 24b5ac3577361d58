package report

import (
	"math"
	"strconv"
	"strings"
)

var units = []struct {
	cutoff float64
	suffix string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// Human renders n with a metric suffix, one decimal at most:
// 1500 -> "1.5K", 2e6 -> "2M", 42 -> "42".
func Human(n float64) string {
	abs := math.Abs(n)
	for _, u := range units {
		if abs >= u.cutoff {
			return trimZero(n/u.cutoff) + u.suffix
		}
	}
	return strconv.Itoa(int(n))
}

func trimZero(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}
