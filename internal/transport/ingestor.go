// FilePath: internal/transport/ingestor.go
package transport

import (
	"context"
	"encoding/json"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/internal/ingest"
)

// Topic suffixes under "<root>/<externalID>/...". The firmware publishes
// sensor readings, liveness heartbeats (which carry the relay flag) and
// explicit status announcements on separate topics.
const (
	suffixSensorData = "sensor/data"
	suffixHeartbeat  = "heartbeat"
	suffixStatus     = "status"
)

// Ingestor subscribes to the device topics and dispatches each message to
// the ingestion pipeline. Handlers run on paho's router goroutines and may
// execute concurrently across devices.
type Ingestor struct {
	client    mqtt.Client
	topicRoot string
	pipeline  *ingest.Service
}

func NewIngestor(client mqtt.Client, topicRoot string, pipeline *ingest.Service) *Ingestor {
	return &Ingestor{
		client:    client,
		topicRoot: strings.TrimSuffix(topicRoot, "/"),
		pipeline:  pipeline,
	}
}

// Start subscribes to all device topics and blocks until the context is
// cancelled.
func (i *Ingestor) Start(ctx context.Context) {
	subscriptions := map[string]func(context.Context, string, map[string]interface{}){
		i.topicRoot + "/+/" + suffixSensorData: i.pipeline.HandleSensorData,
		i.topicRoot + "/+/" + suffixHeartbeat:  i.pipeline.HandleHeartbeat,
		i.topicRoot + "/+/" + suffixStatus:     i.pipeline.HandleStatus,
	}

	for topic, handle := range subscriptions {
		handle := handle
		token := i.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			externalID, ok := i.externalID(msg.Topic())
			if !ok {
				nuts.L.Warnf("[Transport] Message on unparseable topic %s dropped", msg.Topic())
				return
			}
			raw := map[string]interface{}{}
			if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
				nuts.L.Warnf("[Transport] Non-JSON payload from device %s dropped: %v", externalID, err)
				return
			}
			handle(ctx, externalID, raw)
		})
		token.Wait()
		if token.Error() != nil {
			nuts.L.Errorf("[Transport] Error subscribing to topic %s: %v", topic, token.Error())
		} else {
			nuts.L.Infof("[Transport] Subscribed to topic %s", topic)
		}
	}

	<-ctx.Done()

	for topic := range subscriptions {
		i.client.Unsubscribe(topic)
	}
}

// externalID extracts the device's external identifier from a topic of the
// form "<root>/<externalID>/<suffix>".
func (i *Ingestor) externalID(topic string) (string, bool) {
	rest := strings.TrimPrefix(topic, i.topicRoot+"/")
	if rest == topic {
		return "", false
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" {
		return "", false
	}
	return parts[0], true
}
