package math

// Series generates limit values starting at start with the given step.
// Values are rounded to avoid accumulating floating point noise.
func Series(start, step float64, limit int) []float64 {
	xx := make([]float64, 0, limit)
	for i := 0; i < limit; i++ {
		xx = append(xx, Round(start+step*float64(i), 6))
	}
	return xx
}
