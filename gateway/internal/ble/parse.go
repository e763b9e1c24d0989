package ble

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Sensor payload format (little-endian): magic 0x01 0xD0, device_id uint32,
// reading_id uint32, temperature float32 (°C), pressure float32 (hPa),
// humidity float32 (%), 22 bytes total.
const (
	sensorPayloadMagic0 = 0x01
	sensorPayloadMagic1 = 0xD0
	sensorPayloadLen    = 22
)

// SensorCompanyID is the manufacturer id Pico sensors advertise under
// (0xFFFF, reserved for testing).
const SensorCompanyID uint16 = 0xFFFF

// SensorPayloadPrefix returns the magic bytes every sensor payload starts with.
func SensorPayloadPrefix() []byte {
	return []byte{sensorPayloadMagic0, sensorPayloadMagic1}
}

// SensorReading is a parsed BLE sensor advertisement (T/P/H + ids for dedup).
type SensorReading struct {
	DeviceID    uint32
	ReadingID   uint32
	Temperature float32
	Pressure    float32
	Humidity    float32
}

// ParseSensorPayload parses manufacturer data from a Pico sensor advertisement.
// Returns (nil, error) if the payload is not the expected format or length.
func ParseSensorPayload(data []byte) (*SensorReading, error) {
	if len(data) < sensorPayloadLen {
		return nil, fmt.Errorf("payload too short: %d", len(data))
	}
	if data[0] != sensorPayloadMagic0 || data[1] != sensorPayloadMagic1 {
		return nil, fmt.Errorf("invalid magic: %02X %02X", data[0], data[1])
	}
	return &SensorReading{
		DeviceID:    binary.LittleEndian.Uint32(data[2:6]),
		ReadingID:   binary.LittleEndian.Uint32(data[6:10]),
		Temperature: math.Float32frombits(binary.LittleEndian.Uint32(data[10:14])),
		Pressure:    math.Float32frombits(binary.LittleEndian.Uint32(data[14:18])),
		Humidity:    math.Float32frombits(binary.LittleEndian.Uint32(data[18:22])),
	}, nil
}
