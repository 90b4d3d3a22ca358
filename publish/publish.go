// Package publish sends rendered chart definitions to an MQTT broker.
package publish

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/angas/chartdef-go/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Publisher publishes definitions to <prefix>/<chart>/<library>. A
// publisher without a broker is disabled and publishes nothing.
type Publisher struct {
	client mqtt.Client
	logger *slog.Logger
	prefix string
	retain bool
}

func New(cnfg config.AppConfigMqtt) *Publisher {
	logger := slog.Default().With("module", "publish")
	p := &Publisher{
		logger: logger,
		prefix: cnfg.GetTopicPrefix(),
		retain: cnfg.Retain,
	}
	if !cnfg.Enabled() {
		return p
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cnfg.Host, cnfg.GetPort()))
	opts.SetClientID(cnfg.GetClientId())
	opts.SetUsername(cnfg.Username)
	opts.SetPassword(cnfg.Password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected", slog.String("host", cnfg.Host))
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqttLogger := slog.Default().With("module", "mqtt")
	mqtt.CRITICAL = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.WARN = newMqttLogger(mqttLogger, slog.LevelWarn)

	p.client = mqtt.NewClient(opts)
	return p
}

func (p *Publisher) Enabled() bool {
	return p.client != nil
}

func (p *Publisher) Connect() error {
	if !p.Enabled() {
		return nil
	}
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	if p.Enabled() && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func (p *Publisher) Topic(chartID, library string) string {
	return fmt.Sprintf("%s/%s/%s", p.prefix, chartID, library)
}

func (p *Publisher) Publish(chartID, library string, body []byte) error {
	if !p.Enabled() {
		return nil
	}

	topic := p.Topic(chartID, library)
	token := p.client.Publish(topic, 0, p.retain, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}

	p.logger.Debug("definition published", slog.String("topic", topic), slog.Int("bytes", len(body)))
	return nil
}
