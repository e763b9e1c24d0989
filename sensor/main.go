//go:build tinygo

// Firmware for the Pico 2 W weather station: reads the BME280, prints the
// reading with derived metrics over USB serial and advertises it over BLE.
package main

import (
	"fmt"
	"machine"
	"time"

	"cloudpico/shared/unit"
)

const (
	deviceID     uint32 = 1
	readInterval        = 10 * time.Second
)

func main() {
	// USB CDC serial
	machine.Serial.Configure(machine.UARTConfig{})

	// Give the host time to enumerate the USB serial device.
	time.Sleep(1500 * time.Millisecond)
	fmt.Println("boot: pico2w weather station")

	sensor, err := NewSensor()
	if err != nil {
		halt("sensor init failed:", err)
	}

	ble, err := NewBLE(deviceID, AdvertiseOptions{
		Interval: 100 * time.Millisecond,
		Duration: 600 * time.Millisecond,
	})
	if err != nil {
		halt("ble init failed:", err)
	}
	fmt.Println("ble: adapter enabled")

	for {
		reading, err := sensor.Read()
		if err != nil {
			fmt.Println("ERROR: sensor read failed:", err)
			time.Sleep(2 * time.Second)
			continue
		}
		report(reading)

		id, err := ble.Send(reading)
		if err != nil {
			fmt.Println("ERROR: ble send failed:", err)
		} else {
			fmt.Printf("ble: sent reading_id=%d\n", id)
		}

		time.Sleep(readInterval)
	}
}

func report(r Reading) {
	fahrenheit := unit.Celsius(r.Temperature).ToFahrenheit()
	fmt.Printf("reading: T=%.2fC (%.2fF) RH=%.2f%% P=%.2fhPa AH=%.2fg/m3 alt=%.1fm\n",
		r.Temperature, float32(fahrenheit), r.Humidity, r.Pressure,
		r.AbsoluteHumidity(), r.Altitude())
}

func halt(msg string, err error) {
	fmt.Println("FATAL:", msg, err)
	for {
		time.Sleep(1 * time.Second)
	}
}
