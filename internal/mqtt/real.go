package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/ml8/attiny85-skate-dryer/internal/logic"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	replayCapacity = 64
)

// RealPublisher publishes to an actual MQTT broker. While disconnected it
// queues messages and replays them, oldest first, once the connection comes
// back; paho handles the reconnects themselves.
type RealPublisher struct {
	client paho.Client

	mu    sync.Mutex
	queue *replayQueue
}

// NewRealPublisher creates a publisher for the given broker. The initial
// connect is allowed to fail: messages queue locally until the broker
// appears.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{queue: newReplayQueue(replayCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("skate-dryer").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			p.replay()
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) || token.Error() != nil {
		log.Printf("mqtt: broker %s not reachable yet, queueing events", broker)
	}
	return p
}

// Publish sends a controller event to the broker, queueing it if the broker
// is unreachable.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	return p.send(Topic, payload, 0, false)
}

// PublishSystem sends a system lifecycle event to the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once)
	return p.send(TopicSystem, payload, 1, event.Retained)
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (p *RealPublisher) send(topic string, payload []byte, qos byte, retained bool) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.queue.add(queuedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// replay flushes the offline queue after a (re)connect.
func (p *RealPublisher) replay() {
	p.mu.Lock()
	msgs := p.queue.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: connected, replaying %d queued messages", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
			log.Printf("mqtt: replay publish failed on %s", m.topic)
		}
	}
}
