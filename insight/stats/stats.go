// Package stats provides the small statistical toolkit shared by the
// pattern analyzers: means, dispersion, correlation, smoothing, and
// sample-size confidence penalties.
package stats

import "math"

// Average returns the arithmetic mean, or 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Sum returns the total of values.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// StdDev returns the population standard deviation; 0 for fewer than 2 samples.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Average(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// Pearson returns the Pearson correlation coefficient of two equal-length
// series. Fewer than 3 pairs, mismatched lengths, or a zero-variance series
// all yield 0 rather than an error.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 3 {
		return 0
	}
	meanX := Average(xs)
	meanY := Average(ys)
	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// EMA returns the exponential moving average series with alpha = 2/(span+1).
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if span < 1 {
		span = 1
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Point is an (x, y) observation for regression.
type Point struct {
	X float64
	Y float64
}

// LinearSlope returns the least-squares slope through points; 0 for fewer
// than 2 points or a degenerate x range.
func LinearSlope(points []Point) float64 {
	n := float64(len(points))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// SmallSamplePenalty scales a base confidence down linearly when the sample
// count is below the minimum the analyzer was designed for.
func SmallSamplePenalty(base float64, n, minN int) float64 {
	if minN <= 0 || n >= minN {
		return base
	}
	if n <= 0 {
		return 0
	}
	return base * float64(n) / float64(minN)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
