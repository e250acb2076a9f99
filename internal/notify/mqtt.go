package notify

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"adhan/internal/structures"
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	json "github.com/goccy/go-json"
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// MQTTSink publishes each prayer event as JSON on <topic>/<device id>.
type MQTTSink struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
	logger  providers.Logger
}

func NewMQTTSink(conf *structures.Config, deviceID string, logger providers.Logger) *MQTTSink {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(conf.Mqtt.Broker)
	opts.SetClientID(fmt.Sprintf("adhan-%s", deviceID))
	opts.SetConnectTimeout(conf.Mqtt.Timeout)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.OnConnect = func(mqtt.Client) {
		logger.Infof(providers.TypeTrigger, "Connected to MQTT broker %s", conf.Mqtt.Broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warnf(providers.TypeTrigger, "MQTT connection lost: %s", err)
	}

	client := mqtt.NewClient(opts)
	client.Connect()

	return newMQTTSinkWithClient(client, conf.Mqtt, logger)
}

func newMQTTSinkWithClient(client mqtt.Client, conf structures.MqttConfig, logger providers.Logger) *MQTTSink {
	return &MQTTSink{
		client:  client,
		topic:   conf.Topic,
		qos:     conf.QoS,
		timeout: conf.Timeout,
		logger:  logger,
	}
}

func (m *MQTTSink) Notify(_ context.Context, ev models.PrayerEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	topic := m.topic + "/" + ev.DeviceID
	token := m.client.Publish(topic, m.qos, false, payload)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("%s: %w", topic, ErrPublishTimeout)
	}
	if err = token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	m.logger.Debugf(providers.TypeTrigger, "Published %s to %s", ev.Prayer, topic)
	return nil
}

// Stop is a no-op: a published event cannot be recalled.
func (m *MQTTSink) Stop() {}

func (m *MQTTSink) Close() error {
	m.client.Disconnect(250)
	return nil
}
