// Package publisher pushes computed bills to an MQTT broker, e.g. for Home Assistant sensors.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"home_bills/internal/config"
	"home_bills/internal/models"
	"home_bills/internal/money"
)

const (
	defaultTopicPrefix = "home_bills"
	defaultClientID    = "home_bills"
	publishQoS         = 1
	publishTimeout     = 10 * time.Second
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Publisher sends each saved bill as a retained JSON message on <prefix>/bill
// and the plain total on <prefix>/total.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New connects to the broker configured in cfg.
func New(cfg config.MQTTConfig) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return newWithClient(client, cfg.TopicPrefix), nil
}

func newWithClient(client mqtt.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return &Publisher{client: client, topicPrefix: prefix}
}

// BillMessage is the JSON payload of <prefix>/bill.
type BillMessage struct {
	Period      string             `json:"period"`
	Total       float64            `json:"total"`
	TotalText   string             `json:"total_text"`
	Consumption models.Consumption `json:"consumption"`
	Prices      models.Prices      `json:"prices"`
	Comparison  *models.Comparison `json:"comparison,omitempty"`
}

func NewBillMessage(b models.Bill) BillMessage {
	return BillMessage{
		Period:      b.Period.String(),
		Total:       money.FromFloat(b.Total).Float(),
		TotalText:   money.Format(b.Total),
		Consumption: b.Consumption,
		Prices:      b.Prices,
		Comparison:  b.Comparison,
	}
}

// PublishBill publishes the bill and its total. A nil Publisher does nothing.
func (p *Publisher) PublishBill(ctx context.Context, b models.Bill) error {
	if p == nil || p.client == nil {
		return nil
	}
	body, err := json.Marshal(NewBillMessage(b))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := p.publish(ctx, p.topicPrefix+"/bill", body); err != nil {
		return err
	}
	total := strconv.FormatFloat(money.FromFloat(b.Total).Float(), 'f', 2, 64)
	return p.publish(ctx, p.topicPrefix+"/total", []byte(total))
}

func (p *Publisher) publish(ctx context.Context, topic string, payload []byte) error {
	token := p.client.Publish(topic, publishQoS, true, payload)
	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p != nil && p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
