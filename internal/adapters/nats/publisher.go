package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geoviz/internal/core/domain"
)

// Subjects carried on the broker.
const (
	SubjectQuakePrefix  = "geoviz.quake."
	SubjectFlightPrefix = "geoviz.flight."
	SubjectQuakes       = SubjectQuakePrefix + ">"
	SubjectFlights      = SubjectFlightPrefix + ">"
)

// Streams returns the JetStream streams the publisher maintains.
func Streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "EARTHQUAKES",
			Subjects:  []string{SubjectQuakes},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "FLIGHT_POSITIONS",
			Subjects:  []string{SubjectFlights},
			Retention: nats.InterestPolicy,
			MaxAge:    10 * time.Minute,
			Storage:   nats.MemoryStorage,
		},
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishEarthquake(ctx context.Context, q *domain.Earthquake) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectQuakePrefix+SubjectToken(q.ID), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishFlightPosition(ctx context.Context, pos *domain.FlightPosition) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectFlightPrefix+SubjectToken(pos.FlightID), data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// SubjectToken replaces characters NATS treats as separators or wildcards.
func SubjectToken(id string) string {
	b := []byte(id)
	for i, c := range b {
		switch c {
		case '.', '*', '>', ' ':
			b[i] = '_'
		}
	}
	if len(b) == 0 {
		return "_"
	}
	return string(b)
}
