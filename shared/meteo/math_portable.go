//go:build tinygo || portablemath

package meteo

import "github.com/chewxy/math32"

// Used on targets without a host libm; selected with the portablemath tag or
// automatically under TinyGo.

func expf(x float32) float32 {
	return math32.Exp(x)
}

func powf(x, y float32) float32 {
	return math32.Pow(x, y)
}
