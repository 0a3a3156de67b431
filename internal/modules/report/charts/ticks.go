package charts

import (
	"fmt"
	"math"
	"strconv"

	"bikeshare-dashboard/internal/modules/report/analysis"
)

// maxTicks bounds the tick loop whatever the step rounding does.
const maxTicks = 64

// niceTicks picks about n round tick values covering [lo, hi]. The first and
// last ticks enclose the data and double as the axis range. It returns nil
// when the bounds or their span are not finite.
func niceTicks(lo, hi float64, n int) []float64 {
	if n < 2 || !finite(lo) || !finite(hi) {
		return nil
	}
	if hi <= lo {
		lo, hi = lo-0.5, hi+0.5
	}
	span := hi - lo
	if !finite(span) {
		return nil
	}
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(2, math.Ceil(span/step))
		if score := math.Abs(count - float64(n)); score < bestScore {
			best, bestScore = step, score
		}
	}

	start := math.Floor(lo/best) * best
	end := math.Ceil(hi/best) * best
	if !finite(start) || !finite(end) {
		return nil
	}
	var ticks []float64
	for i := 0; i < maxTicks; i++ {
		v := start + float64(i)*best
		if v > end+best/2 {
			break
		}
		ticks = append(ticks, roundTo(v, best))
	}
	if len(ticks) < 2 {
		return nil
	}
	return ticks
}

// axisTicks is niceTicks for an axis that must exist.
func axisTicks(lo, hi float64, n int) ([]float64, error) {
	ticks := niceTicks(lo, hi, n)
	if ticks == nil {
		return nil, fmt.Errorf("%w: [%g, %g]", analysis.ErrNoRange, lo, hi)
	}
	return ticks, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundTo strips the float noise accumulated by repeated steps.
func roundTo(v, step float64) float64 {
	digits := max(0, -int(math.Floor(math.Log10(step)))+1)
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
