// FilePath: internal/transport/mqtt.go

// Package transport connects the ingestion pipeline to the MQTT broker
// devices publish on. Delivery is at-most-once (QoS 0) with no ordering
// guarantee across devices; a handler error is logged and the message is
// gone.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/internal/config"
)

// NewClient connects to the broker with exponential backoff and ties the
// connection's lifetime to ctx.
func NewClient(ctx context.Context, cfg config.MQTTConfig) (mqtt.Client, error) {
	brokerAddr := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerAddr)
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	const maxRetries = 5

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			nuts.L.Warnf("[Transport] Failed to connect to MQTT broker: %v", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithMaxRetries(bo, maxRetries-1))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %w", err)
	}

	nuts.L.Infof("[Transport] Connected to MQTT broker at %s", brokerAddr)

	go func() {
		<-ctx.Done()
		client.Disconnect(250)
		nuts.L.Infof("[Transport] MQTT connection closed")
	}()

	return client, nil
}
