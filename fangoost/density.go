package fangoost

// DensityPoints is the number of evenly spaced points a density is sampled on.
const DensityPoints = 128

// Density samples the log return density on [-xMax, xMax].
func Density(numU int, xMax float64, cf CF) []GraphElement {
	e := newExpansion(numU, -xMax, xMax, cf)
	dx := 2 * xMax / float64(DensityPoints-1)
	out := make([]GraphElement, DensityPoints)
	for i := range out {
		x := -xMax + float64(i)*dx
		out[i] = GraphElement{X: x, Value: e.density(x)}
	}
	return out
}
