package meteo

import (
	"testing"

	"cloudpico/shared/unit"
)

func TestTemperature_Accessors(t *testing.T) {
	c := NewTemperature(unit.Celsius(37.5))
	if c.Celsius() != 37.5 {
		t.Errorf("Celsius() = %v; want 37.5", c.Celsius())
	}
	if !unit.ApproxEqual(c.Fahrenheit(), 99.5, unit.Tolerance) {
		t.Errorf("Fahrenheit() = %v; want 99.5", c.Fahrenheit())
	}

	f := NewTemperature(unit.Fahrenheit(32))
	if f.Fahrenheit() != 32 {
		t.Errorf("Fahrenheit() = %v; want 32", f.Fahrenheit())
	}
	if !unit.ApproxEqual(f.Celsius(), 0, unit.Tolerance) {
		t.Errorf("Celsius() = %v; want 0", f.Celsius())
	}
}

func TestTemperature_Conversion(t *testing.T) {
	c := NewTemperature(unit.Celsius(21.18))

	f := c.InFahrenheit()
	if !f.Equal(NewTemperature(unit.Fahrenheit(70.12))) {
		t.Errorf("InFahrenheit() = %v; want ~70.12", f.Value())
	}
	if back := f.InCelsius(); !back.Equal(c) {
		t.Errorf("round trip = %v; want %v", back.Value(), c.Value())
	}
	if same := c.InCelsius(); same != c {
		t.Errorf("InCelsius() on a Celsius value = %v; want %v unchanged", same.Value(), c.Value())
	}
}

func TestTemperatureAndRelativeHumidity(t *testing.T) {
	t.Run("celsius", func(t *testing.T) {
		m := NewTemperatureAndRelativeHumidity(unit.Celsius(21.18), 45.59)
		if got := m.AbsoluteHumidity(); !unit.ApproxEqual(got, 8.43, unit.Tolerance) {
			t.Errorf("AbsoluteHumidity() = %v; want 8.43", got)
		}
	})

	t.Run("fahrenheit", func(t *testing.T) {
		m := NewTemperatureAndRelativeHumidity(unit.Fahrenheit(70.12), 45.59)
		if got := m.AbsoluteHumidity(); !unit.ApproxEqual(got, 8.43, unit.Tolerance) {
			t.Errorf("AbsoluteHumidity() = %v; want 8.43", got)
		}
	})

	t.Run("cold celsius", func(t *testing.T) {
		m := NewTemperatureAndRelativeHumidity(unit.Celsius(2.93), 34.71)
		if got := m.AbsoluteHumidity(); !unit.ApproxEqual(got, 2.06, unit.Tolerance) {
			t.Errorf("AbsoluteHumidity() = %v; want 2.06", got)
		}
	})

	t.Run("hot fahrenheit", func(t *testing.T) {
		m := NewTemperatureAndRelativeHumidity(unit.Fahrenheit(107.7), 74.91)
		if got := m.AbsoluteHumidity(); !unit.ApproxEqual(got, 42.49, unit.Tolerance) {
			t.Errorf("AbsoluteHumidity() = %v; want 42.49", got)
		}
	})

	t.Run("converted equals constructed", func(t *testing.T) {
		celsius := NewTemperatureAndRelativeHumidity(unit.Celsius(21.18), 45.59)
		fahrenheit := NewTemperatureAndRelativeHumidity(unit.Fahrenheit(70.12), 45.59)

		converted := celsius.InFahrenheit()
		if !converted.Equal(fahrenheit) {
			t.Errorf("InFahrenheit() = %+v; want %+v", converted, fahrenheit)
		}
		if converted.RelativeHumidity != celsius.RelativeHumidity {
			t.Errorf("RelativeHumidity = %v; want %v copied verbatim", converted.RelativeHumidity, celsius.RelativeHumidity)
		}
		if back := fahrenheit.InCelsius(); !back.Equal(celsius) {
			t.Errorf("InCelsius() = %+v; want %+v", back, celsius)
		}
	})

	t.Run("conversion keeps the derived value", func(t *testing.T) {
		m := NewTemperatureAndRelativeHumidity(unit.Celsius(21.18), 45.59)
		if a, b := m.AbsoluteHumidity(), m.InFahrenheit().AbsoluteHumidity(); !unit.ApproxEqual(a, b, unit.Tolerance) {
			t.Errorf("AbsoluteHumidity changed across units: %v vs %v", a, b)
		}
	})

	t.Run("converting to own unit is a no-op", func(t *testing.T) {
		c := NewTemperatureAndRelativeHumidity(unit.Celsius(21.18), 45.59)
		if got := ConvertHumidity[unit.Celsius](c); got != c {
			t.Errorf("ConvertHumidity[Celsius] = %+v; want %+v", got, c)
		}
		f := NewTemperatureAndRelativeHumidity(unit.Fahrenheit(70.12), 45.59)
		if got := f.InFahrenheit(); got != f {
			t.Errorf("InFahrenheit() = %+v; want %+v", got, f)
		}
	})

	t.Run("humidity outside tolerance is not equal", func(t *testing.T) {
		a := NewTemperatureAndRelativeHumidity(unit.Celsius(21.18), 45.59)
		b := NewTemperatureAndRelativeHumidity(unit.Celsius(21.18), 46.59)
		if a.Equal(b) {
			t.Error("measurements with humidity 45.59 and 46.59 should differ")
		}
	})
}

func TestTemperatureAndBarometricPressure(t *testing.T) {
	t.Run("celsius", func(t *testing.T) {
		m := NewTemperatureAndBarometricPressure(unit.Celsius(20.55), 991.32)
		if got := m.Altitude(); !unit.ApproxEqual(got, 188.46, unit.Tolerance) {
			t.Errorf("Altitude() = %v; want 188.46", got)
		}
	})

	t.Run("sea level", func(t *testing.T) {
		m := NewTemperatureAndBarometricPressure(unit.Celsius(17.93), 1013.25)
		if got := m.Altitude(); !unit.ApproxEqual(got, 0, unit.Tolerance) {
			t.Errorf("Altitude() = %v; want 0", got)
		}
	})

	t.Run("fahrenheit matches celsius", func(t *testing.T) {
		c := NewTemperatureAndBarometricPressure(unit.Celsius(19.37), 962.81)
		f := c.InFahrenheit()
		if f.BarometricPressure != c.BarometricPressure {
			t.Errorf("BarometricPressure = %v; want %v copied verbatim", f.BarometricPressure, c.BarometricPressure)
		}
		if !unit.ApproxEqual(f.Altitude(), 439.25, 0.05) {
			t.Errorf("Altitude() = %v; want ~439.25", f.Altitude())
		}
		if back := f.InCelsius(); !back.Equal(c) {
			t.Errorf("InCelsius() = %+v; want %+v", back, c)
		}
	})

	t.Run("converting to own unit is a no-op", func(t *testing.T) {
		c := NewTemperatureAndBarometricPressure(unit.Celsius(20.55), 991.32)
		if got := c.InCelsius(); got != c {
			t.Errorf("InCelsius() = %+v; want %+v", got, c)
		}
		f := NewTemperatureAndBarometricPressure(unit.Fahrenheit(68.99), 991.32)
		if got := ConvertPressure[unit.Fahrenheit](f); got != f {
			t.Errorf("ConvertPressure[Fahrenheit] = %+v; want %+v", got, f)
		}
	})
}
