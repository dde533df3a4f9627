package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gr-butler/cornfield/control"
	logger "github.com/sirupsen/logrus"
)

const (
	connectRetries = 5
	publishTimeout = 5 * time.Second
)

// Publisher sends every cycle to cornfield/<station>/telemetry. Observe
// only queues the latest reading so a slow broker never holds up the loop.
type Publisher struct {
	client  mqtt.Client
	station string
	topic   string
	queue   chan Reading
	done    chan struct{}
}

// Topic returns the telemetry topic for a station.
func Topic(station string) string {
	return fmt.Sprintf("cornfield/%s/telemetry", station)
}

// NewPublisher connects to broker (tcp://host:port), retrying with
// exponential backoff.
func NewPublisher(ctx context.Context, broker, station string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("cornfield-" + station)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Infof("MQTT connected to %v", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warnf("MQTT connection lost [%v]", err)
	})
	client := mqtt.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(func() error {
		token := client.Connect()
		token.Wait()
		if err := token.Error(); err != nil {
			logger.Warnf("Failed to connect to MQTT broker %v [%v]", broker, err)
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, connectRetries-1), ctx))
	if err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return newPublisher(client, station), nil
}

func newPublisher(client mqtt.Client, station string) *Publisher {
	p := &Publisher{
		client:  client,
		station: station,
		topic:   Topic(station),
		queue:   make(chan Reading, 1),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Publisher) Observe(st control.Status) {
	r := NewReading(p.station, st)
	for {
		select {
		case p.queue <- r:
			return
		default:
		}
		// drop the stale reading
		select {
		case <-p.queue:
		default:
		}
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for r := range p.queue {
		if err := p.publish(r); err != nil {
			logger.Errorf("Failed to publish telemetry [%v]", err)
		}
	}
}

func (p *Publisher) publish(r Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}
	token := p.client.Publish(p.topic, 1, false, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish telemetry: %w", err)
	}
	logger.Debugf("Published cycle %d to %s", r.Cycle, p.topic)
	return nil
}

// Close flushes the queued reading and disconnects. Observe must not be
// called afterwards.
func (p *Publisher) Close() {
	close(p.queue)
	<-p.done
	p.client.Disconnect(250)
	logger.Info("MQTT disconnected")
}
