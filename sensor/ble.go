//go:build tinygo

// BLE advertising for Pico 2 W so the gateway can discover the device.
// Manufacturer data format: [0:2] magic 0x01 0xD0, [2:6] device_id uint32 LE,
// [6:10] reading_id uint32 LE, [10:14] temp float32 LE, [14:18] pressure float32 LE,
// [18:22] humidity float32 LE (22 bytes total).
package main

import (
	"encoding/binary"
	"math"
	"time"

	"tinygo.org/x/bluetooth"
)

const (
	blePayloadMagic0 = 0x01
	blePayloadMagic1 = 0xD0
	blePayloadLen    = 22
	bleCompanyID     = 0xFFFF
	bleLocalName     = "pico2w-sensor"
)

type AdvertiseOptions struct {
	Interval time.Duration
	Duration time.Duration
}

type BLE struct {
	deviceID             uint32
	readingID            uint32
	adapter              *bluetooth.Adapter
	readingData          [blePayloadLen]byte
	advertisementOptions bluetooth.AdvertisementOptions
	advertisement        *bluetooth.Advertisement

	burst time.Duration
}

func NewBLE(deviceID uint32, options AdvertiseOptions) (*BLE, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, err
	}

	b := &BLE{
		adapter:       adapter,
		deviceID:      deviceID,
		advertisement: adapter.DefaultAdvertisement(),
		burst:         options.Duration,
	}
	b.advertisementOptions = bluetooth.AdvertisementOptions{
		AdvertisementType: bluetooth.AdvertisingTypeNonConnInd,
		LocalName:         bleLocalName,
		Interval:          bluetooth.NewDuration(options.Interval),
		ManufacturerData: []bluetooth.ManufacturerDataElement{
			{CompanyID: bleCompanyID, Data: b.readingData[:]},
		},
	}
	return b, nil
}

// encode fills the reusable payload buffer in place.
func (b *BLE) encode(reading Reading, id uint32) {
	b.readingData[0] = blePayloadMagic0
	b.readingData[1] = blePayloadMagic1
	binary.LittleEndian.PutUint32(b.readingData[2:6], b.deviceID)
	binary.LittleEndian.PutUint32(b.readingData[6:10], id)
	binary.LittleEndian.PutUint32(b.readingData[10:14], math.Float32bits(reading.Temperature))
	binary.LittleEndian.PutUint32(b.readingData[14:18], math.Float32bits(reading.Pressure))
	binary.LittleEndian.PutUint32(b.readingData[18:22], math.Float32bits(reading.Humidity))
}

// Send advertises reading for one burst and returns the reading id it was
// tagged with. The gateway deduplicates on (device_id, reading_id).
func (b *BLE) Send(reading Reading) (uint32, error) {
	id := b.readingID
	b.readingID++

	b.encode(reading, id)

	if err := b.advertisement.Configure(b.advertisementOptions); err != nil {
		return 0, err
	}
	if err := b.advertisement.Start(); err != nil {
		_ = b.advertisement.Stop()
		return 0, err
	}

	time.Sleep(b.burst)
	return id, b.advertisement.Stop()
}
