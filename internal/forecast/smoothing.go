package forecast

// Smooth applies a first-order exponential filter:
// out[0] = in[0], out[i] = out[i-1]*factor + in[i]*(1-factor).
func Smooth(points []float64, factor float64) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		if i == 0 {
			out[i] = p
			continue
		}
		out[i] = out[i-1]*factor + p*(1-factor)
	}
	return out
}
