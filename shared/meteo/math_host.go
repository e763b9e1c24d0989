//go:build !tinygo && !portablemath

package meteo

import "math"

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
