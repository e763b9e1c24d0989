package meteo

import "cloudpico/shared/unit"

// Temperature holds a single temperature in the unit U.
type Temperature[U unit.Unit] struct {
	value U
}

// NewTemperature wraps value.
func NewTemperature[U unit.Unit](value U) Temperature[U] {
	return Temperature[U]{value: value}
}

// Value returns the stored magnitude in its own unit.
func (t Temperature[U]) Value() U {
	return t.value
}

// Celsius returns the temperature in °C, converting if U is not Celsius.
func (t Temperature[U]) Celsius() float32 {
	return t.value.Celsius()
}

// Fahrenheit returns the temperature in °F, converting if U is not Fahrenheit.
func (t Temperature[U]) Fahrenheit() float32 {
	return t.value.Fahrenheit()
}

// Equal compares two temperatures of the same unit within unit.Tolerance.
func (t Temperature[U]) Equal(o Temperature[U]) bool {
	return unit.ApproxEqual(float32(t.value), float32(o.value), unit.Tolerance)
}

func (t Temperature[U]) InCelsius() Temperature[unit.Celsius] {
	return ConvertTemperature[unit.Celsius](t)
}

func (t Temperature[U]) InFahrenheit() Temperature[unit.Fahrenheit] {
	return ConvertTemperature[unit.Fahrenheit](t)
}

// ConvertTemperature re-expresses t in the unit To.
func ConvertTemperature[To, From unit.Unit](t Temperature[From]) Temperature[To] {
	return Temperature[To]{value: unit.Convert[To](t.value)}
}

// TemperatureAndRelativeHumidity is a temperature paired with a relative humidity (%).
type TemperatureAndRelativeHumidity[U unit.Unit] struct {
	RelativeHumidity float32
	Temperature      Temperature[U]
}

func NewTemperatureAndRelativeHumidity[U unit.Unit](temperature U, relativeHumidity float32) TemperatureAndRelativeHumidity[U] {
	return TemperatureAndRelativeHumidity[U]{
		RelativeHumidity: relativeHumidity,
		Temperature:      NewTemperature(temperature),
	}
}

// AbsoluteHumidity returns the absolute humidity in g/m³.
func (m TemperatureAndRelativeHumidity[U]) AbsoluteHumidity() float32 {
	return AbsoluteHumidity(m.Temperature.Celsius(), m.RelativeHumidity)
}

// Equal compares the temperature in its own unit and the humidity, both within
// unit.Tolerance.
func (m TemperatureAndRelativeHumidity[U]) Equal(o TemperatureAndRelativeHumidity[U]) bool {
	return m.Temperature.Equal(o.Temperature) &&
		unit.ApproxEqual(m.RelativeHumidity, o.RelativeHumidity, unit.Tolerance)
}

func (m TemperatureAndRelativeHumidity[U]) InCelsius() TemperatureAndRelativeHumidity[unit.Celsius] {
	return ConvertHumidity[unit.Celsius](m)
}

func (m TemperatureAndRelativeHumidity[U]) InFahrenheit() TemperatureAndRelativeHumidity[unit.Fahrenheit] {
	return ConvertHumidity[unit.Fahrenheit](m)
}

// ConvertHumidity re-expresses the temperature of m in the unit To. The relative
// humidity is copied as is.
func ConvertHumidity[To, From unit.Unit](m TemperatureAndRelativeHumidity[From]) TemperatureAndRelativeHumidity[To] {
	return TemperatureAndRelativeHumidity[To]{
		RelativeHumidity: m.RelativeHumidity,
		Temperature:      ConvertTemperature[To](m.Temperature),
	}
}

// TemperatureAndBarometricPressure is a temperature paired with a barometric
// pressure (hPa).
type TemperatureAndBarometricPressure[U unit.Unit] struct {
	BarometricPressure float32
	Temperature        Temperature[U]
}

func NewTemperatureAndBarometricPressure[U unit.Unit](temperature U, barometricPressure float32) TemperatureAndBarometricPressure[U] {
	return TemperatureAndBarometricPressure[U]{
		BarometricPressure: barometricPressure,
		Temperature:        NewTemperature(temperature),
	}
}

// Altitude returns the altitude in meters.
func (m TemperatureAndBarometricPressure[U]) Altitude() float32 {
	return Altitude(m.Temperature.Celsius(), m.BarometricPressure)
}

func (m TemperatureAndBarometricPressure[U]) Equal(o TemperatureAndBarometricPressure[U]) bool {
	return m.Temperature.Equal(o.Temperature) &&
		unit.ApproxEqual(m.BarometricPressure, o.BarometricPressure, unit.Tolerance)
}

func (m TemperatureAndBarometricPressure[U]) InCelsius() TemperatureAndBarometricPressure[unit.Celsius] {
	return ConvertPressure[unit.Celsius](m)
}

func (m TemperatureAndBarometricPressure[U]) InFahrenheit() TemperatureAndBarometricPressure[unit.Fahrenheit] {
	return ConvertPressure[unit.Fahrenheit](m)
}

// ConvertPressure re-expresses the temperature of m in the unit To. The pressure is
// copied as is.
func ConvertPressure[To, From unit.Unit](m TemperatureAndBarometricPressure[From]) TemperatureAndBarometricPressure[To] {
	return TemperatureAndBarometricPressure[To]{
		BarometricPressure: m.BarometricPressure,
		Temperature:        ConvertTemperature[To](m.Temperature),
	}
}
