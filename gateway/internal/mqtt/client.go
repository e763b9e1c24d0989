package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cloudpico/gateway/internal/config"
	"cloudpico/shared/types"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	qos            = 1
	publishTimeout = 5 * time.Second
	connectPoll    = 200 * time.Millisecond
	quiesceMillis  = 250
)

var (
	ErrNotConnected = errors.New("mqtt client not connected")
	ErrStopped      = errors.New("mqtt client stopped")
)

// Client forwards station telemetry and health to the broker.
type Client struct {
	paho   mqtt.Client
	logger *slog.Logger

	mu     sync.RWMutex
	online bool

	stop     chan struct{}
	stopOnce sync.Once
}

// StationHealth is the retained last-seen record of one station.
type StationHealth struct {
	StationID string    `json:"station_id"`
	LastSeen  time.Time `json:"last_seen"`
	Healthy   bool      `json:"healthy"`
}

func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.MQTTClientID == "" {
		return nil, errors.New("mqtt client id is required")
	}
	c := &Client{logger: logger, stop: make(chan struct{})}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL(cfg)).
		SetClientID(cfg.MQTTClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(time.Minute).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			c.setOnline(true)
			logger.Info("mqtt connected", "broker", brokerURL(cfg))
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			c.setOnline(false)
			logger.Warn("mqtt connection lost", "error", err)
		})

	c.paho = mqtt.NewClient(opts)
	return c, nil
}

func brokerURL(cfg config.Config) string {
	return fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort)
}

// Connect blocks until the first connection succeeds, ctx ends or the
// client is disconnected. Paho keeps retrying in the background meanwhile.
func (c *Client) Connect(ctx context.Context) error {
	if c.stopped() {
		return ErrStopped
	}
	if c.IsConnected() {
		return nil
	}

	token := c.paho.Connect()
	for !token.WaitTimeout(connectPoll) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stop:
			return ErrStopped
		default:
		}
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func TelemetryTopic(stationID string) string {
	return "stations/" + stationID + "/telemetry"
}

// HealthTopic is retained, so late subscribers see the last state.
func HealthTopic(stationID string) string {
	return "stations/" + stationID + "/health"
}

func encodeTelemetry(telemetry types.Telemetry, now time.Time) (string, []byte, error) {
	if telemetry.StationID == "" {
		return "", nil, errors.New("telemetry without station id")
	}
	if telemetry.Timestamp.IsZero() {
		telemetry.Timestamp = now
	}
	data, err := json.Marshal(telemetry)
	if err != nil {
		return "", nil, fmt.Errorf("marshal telemetry: %w", err)
	}
	return TelemetryTopic(telemetry.StationID), data, nil
}

func encodeHealth(health StationHealth, now time.Time) (string, []byte, error) {
	if health.StationID == "" {
		return "", nil, errors.New("health without station id")
	}
	if health.LastSeen.IsZero() {
		health.LastSeen = now
	}
	data, err := json.Marshal(health)
	if err != nil {
		return "", nil, fmt.Errorf("marshal health: %w", err)
	}
	return HealthTopic(health.StationID), data, nil
}

func (c *Client) PublishTelemetry(telemetry types.Telemetry) error {
	topic, data, err := encodeTelemetry(telemetry, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.publish(topic, false, data)
}

func (c *Client) PublishStationHealth(health StationHealth) error {
	topic, data, err := encodeHealth(health, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.publish(topic, true, data)
}

func (c *Client) publish(topic string, retained bool, data []byte) error {
	if !c.IsConnected() {
		return fmt.Errorf("publish %s: %w", topic, ErrNotConnected)
	}
	token := c.paho.Publish(topic, qos, retained, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out after %s", topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		c.logger.Error("mqtt publish failed", "topic", topic, "error", err)
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	c.logger.Debug("mqtt published", "topic", topic, "retained", retained, "bytes", len(data))
	return nil
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	online := c.online
	c.mu.RUnlock()
	return online && c.paho.IsConnected()
}

// Disconnect is idempotent. Connect fails with ErrStopped afterwards.
func (c *Client) Disconnect() {
	c.stopOnce.Do(func() {
		close(c.stop)
		c.paho.Disconnect(quiesceMillis)
		c.setOnline(false)
		c.logger.Info("mqtt disconnected")
	})
}

func (c *Client) stopped() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}

func (c *Client) setOnline(v bool) {
	c.mu.Lock()
	c.online = v
	c.mu.Unlock()
}
