package ble

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloudpico/gateway/internal/utils"

	"tinygo.org/x/bluetooth"
)

const defaultAdapter = "hci0"

// Match is one sensor advertisement that passed the filter.
type Match struct {
	Address   string
	RSSI      int16
	LocalName string
	CompanyID uint16
	Data      []byte
	SeenAt    time.Time
}

// Filter selects sensor advertisements. Zero fields match anything.
type Filter struct {
	LocalName string
	CompanyID uint16
	Prefix    []byte
}

func (f Filter) Accepts(localName string, companyID uint16, data []byte) bool {
	if f.LocalName != "" && localName != f.LocalName {
		return false
	}
	if f.CompanyID != 0 && companyID != f.CompanyID {
		return false
	}
	return bytes.HasPrefix(data, f.Prefix)
}

// Select returns the first manufacturer element the filter accepts.
func (f Filter) Select(localName string, elements []bluetooth.ManufacturerDataElement) (bluetooth.ManufacturerDataElement, bool) {
	for _, el := range elements {
		if f.Accepts(localName, el.CompanyID, el.Data) {
			return el, true
		}
	}
	return bluetooth.ManufacturerDataElement{}, false
}

func (f Filter) String() string {
	return fmt.Sprintf("name=%q company=0x%s prefix=%s", f.LocalName, utils.Hex4(f.CompanyID), utils.BytesToHex(f.Prefix))
}

type Options struct {
	Adapter string
	Filter  Filter
	Logger  *slog.Logger
}

// Listener scans a BlueZ adapter until its context ends.
type Listener struct {
	adapter *bluetooth.Adapter
	name    string
	filter  Filter
	logger  *slog.Logger
}

func NewListener(opts Options) *Listener {
	if opts.Adapter == "" {
		opts.Adapter = defaultAdapter
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Listener{
		adapter: bluetooth.NewAdapter(opts.Adapter),
		name:    opts.Adapter,
		filter:  opts.Filter,
		logger:  opts.Logger.With("adapter", opts.Adapter),
	}
}

// Run blocks while scanning. Cancelling ctx is a clean stop.
func (l *Listener) Run(ctx context.Context, onMatch func(Match)) error {
	if err := l.adapter.Enable(); err != nil {
		return fmt.Errorf("enable adapter %s: %w", l.name, err)
	}

	stop := context.AfterFunc(ctx, func() { _ = l.adapter.StopScan() })
	defer stop()

	l.logger.Info("ble scanning", "filter", l.filter.String())
	err := l.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
		name := r.LocalName()
		el, ok := l.filter.Select(name, r.ManufacturerData())
		if !ok || onMatch == nil {
			return
		}
		onMatch(Match{
			Address:   r.Address.String(),
			RSSI:      r.RSSI,
			LocalName: name,
			CompanyID: el.CompanyID,
			Data:      bytes.Clone(el.Data),
			SeenAt:    time.Now(),
		})
	})
	if ctx.Err() != nil {
		l.logger.Info("ble scanning stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan adapter %s: %w", l.name, err)
	}
	return nil
}
