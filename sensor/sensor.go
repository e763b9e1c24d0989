//go:build tinygo

// BME280 I2C sensor reading (temperature, pressure, humidity).
package main

import (
	"machine"

	"tinygo.org/x/drivers/bme280"

	"cloudpico/shared/meteo"
	"cloudpico/shared/unit"
)

type Reading struct {
	Temperature float32 // °C
	Pressure    float32 // hPa
	Humidity    float32 // %RH
}

// AbsoluteHumidity returns g/m³ for the reading.
func (r Reading) AbsoluteHumidity() float32 {
	return meteo.NewTemperatureAndRelativeHumidity(unit.Celsius(r.Temperature), r.Humidity).AbsoluteHumidity()
}

// Altitude returns the barometric altitude in meters.
func (r Reading) Altitude() float32 {
	return meteo.NewTemperatureAndBarometricPressure(unit.Celsius(r.Temperature), r.Pressure).Altitude()
}

type Sensor struct {
	device *bme280.Device
}

func NewSensor() (Sensor, error) {
	i2c := machine.I2C1
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       machine.GP32,
		SCL:       machine.GP33,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		return Sensor{}, err
	}

	sensor := bme280.New(i2c)
	sensor.Configure()

	return Sensor{
		device: &sensor,
	}, nil
}

func (s *Sensor) Read() (Reading, error) {
	t, err := s.device.ReadTemperature()
	if err != nil {
		return Reading{}, err
	}
	p, err := s.device.ReadPressure()
	if err != nil {
		return Reading{}, err
	}
	h, err := s.device.ReadHumidity()
	if err != nil {
		return Reading{}, err
	}

	// Driver units: milli-°C, milli-Pa, hundredths of %RH.
	return Reading{
		Temperature: float32(t) / 1000.0,
		Pressure:    float32(p) / 100000.0,
		Humidity:    float32(h) / 100.0,
	}, nil
}
