package math

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Format formats a float based on the given precision
func Format(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Distance is the euclidean distance of the two vectors.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Ratio divides a by b.
// It returns NaN and false if the denominator is zero.
func Ratio(a, b int) (float64, bool) {
	if b == 0 {
		return math.NaN(), false
	}
	return float64(a) / float64(b), true
}

// Blend moves dst towards x by the given rate e.g. dst = (1-rate)*dst + rate*x.
func Blend(dst, x []float64, rate float64) {
	floats.Scale(1-rate, dst)
	floats.AddScaled(dst, rate, x)
}

// Mean writes the coordinate-wise mean of the given rows into dst.
// If there are no rows dst is set to zero and false is returned.
func Mean(dst []float64, rows ...[]float64) bool {
	for i := range dst {
		dst[i] = 0
	}
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		floats.Add(dst, row)
	}
	floats.Scale(1/float64(len(rows)), dst)
	return true
}

// Round rounds f to the given number of decimal digits.
func Round(f float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(f*p) / p
}
