// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt: timed out waiting for broker")

const (
	publishTimeout    = 2 * time.Second
	disconnectQuiesce = 250 // ms
)

// ClientID appends a short random suffix to base so that several instances
// can share a broker without kicking each other off.
func ClientID(base string) string {
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

// MQTTClient publishes and subscribes through a paho client.
// Messages are sent with QoS 0 and are not retained: a subscriber only sees
// what a running producer publishes, never a stale track or marker left on
// the broker by an earlier run.
type MQTTClient struct {
	client mqtt.Client
	broker string
	log    *zap.Logger
}

// NewMQTTClient configures (but does not connect) a client for broker.
// The client reconnects on its own after a lost connection.
func NewMQTTClient(broker, clientID string, log *zap.Logger) *MQTTClient {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("broker", broker), zap.String("client_id", clientID))

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info("connected to MQTT broker")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("MQTT connection lost", zap.Error(err))
		})

	return &MQTTClient{client: mqtt.NewClient(opts), broker: broker, log: log}
}

// Connect starts connecting and waits up to timeout for the first connection.
// On timeout the client keeps retrying in the background and ErrTimeout is
// returned; publishing in the meantime is a no-op.
func (m *MQTTClient) Connect(timeout time.Duration) error {
	token := m.client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("connect %s: %w", m.broker, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect %s: %w", m.broker, err)
	}
	return nil
}

// Publish sends payload to topic and waits briefly for the broker.
func (m *MQTTClient) Publish(topic string, payload []byte) error {
	token := m.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return ErrTimeout
	}
	return token.Error()
}

// Subscribe calls handler with the payload of every message on topic.
func (m *MQTTClient) Subscribe(topic string, handler func(payload []byte)) error {
	token := m.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	m.log.Info("subscribed", zap.String("topic", topic))
	return nil
}

// Close disconnects, giving in-flight work a short quiesce period.
func (m *MQTTClient) Close() {
	m.client.Disconnect(disconnectQuiesce)
}
