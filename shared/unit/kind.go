package unit

import (
	"fmt"
	"strings"
)

// Kind tags a raw magnitude with its unit when the unit is only known at run time,
// e.g. in a telemetry message or a query parameter. The zero value is KindCelsius.
type Kind uint8

const (
	KindCelsius Kind = iota
	KindFahrenheit
)

func (k Kind) String() string {
	switch k {
	case KindCelsius:
		return "C"
	case KindFahrenheit:
		return "F"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// NormalizeCelsius takes v as a magnitude expressed in k and returns it in °C:
// KindFahrenheit.NormalizeCelsius(212) is 100, KindCelsius.NormalizeCelsius(v) is v.
func (k Kind) NormalizeCelsius(v float32) float32 {
	if k == KindFahrenheit {
		return FahrenheitToCelsius(v)
	}
	return v
}

// NormalizeFahrenheit takes v as a magnitude expressed in k and returns it in
// °F: KindCelsius.NormalizeFahrenheit(0) is 32, KindFahrenheit.NormalizeFahrenheit(v) is v.
func (k Kind) NormalizeFahrenheit(v float32) float32 {
	if k == KindFahrenheit {
		return v
	}
	return CelsiusToFahrenheit(v)
}

// ParseKind accepts "C", "F", "celsius" or "fahrenheit", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "celsius":
		return KindCelsius, nil
	case "f", "fahrenheit":
		return KindFahrenheit, nil
	default:
		return KindCelsius, fmt.Errorf("invalid temperature unit %q (allowed: C, F)", s)
	}
}
