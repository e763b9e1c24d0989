// Package meteo derives absolute humidity and altitude from station readings.
//
// The formulas are Celsius-in and evaluated in float32. Nothing is validated:
// physically impossible inputs (non-positive pressure, -273.15 °C) yield NaN or Inf,
// which callers must check for themselves if they care.
package meteo

const (
	// SeaLevelPressure is the reference pressure (hPa) at which Altitude is zero.
	SeaLevelPressure float32 = 1013.25

	magnusA       float32 = 6.112
	magnusB       float32 = 17.67
	magnusC       float32 = 243.5
	vaporConstant float32 = 2.1674
	zeroCelsius   float32 = 273.15
	lapseRate     float32 = 0.0065
	baroExponent  float32 = 1 / 5.257
)

// AbsoluteHumidity returns the absolute humidity (g/m³) for a temperature in °C and
// a relative humidity in %.
func AbsoluteHumidity(temperatureCelsius, relativeHumidity float32) float32 {
	t := temperatureCelsius
	saturation := magnusA * expf((magnusB*t)/(t+magnusC))
	return saturation * relativeHumidity * vaporConstant / (zeroCelsius + t)
}

// Altitude returns the altitude (m) for a temperature in °C and a barometric
// pressure in hPa. At SeaLevelPressure the result is 0 whatever the temperature.
func Altitude(temperatureCelsius, pressureHPa float32) float32 {
	ratio := powf(SeaLevelPressure/pressureHPa, baroExponent)
	return (ratio - 1) * (temperatureCelsius + zeroCelsius) / lapseRate
}
