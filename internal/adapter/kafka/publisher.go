package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/gaga2159318-del/KalawFloodMap/internal/config"
	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
)

// Publisher produces high-risk alerts to a Kafka topic so downstream
// consumers (SMS gateways, dashboards) can fan them out.
// It implements engine.AlertPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured alerts topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishAlert serializes and publishes one high-risk alert.
func (p *Publisher) PublishAlert(ctx context.Context, alert domain.Notification) error {
	msg, err := serializeAlert(alert)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	p.logger.Info("alert published", "areas", len(alert.HighRiskAreas), "simulation", alert.IsSimulation)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeAlert marshals a notification into a Kafka message keyed by its
// generation time so replays stay ordered.
func serializeAlert(alert domain.Notification) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.Time.Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(alert.Type)},
			{Key: "area_count", Value: []byte(strconv.Itoa(len(alert.HighRiskAreas)))},
			{Key: "simulation", Value: []byte(strconv.FormatBool(alert.IsSimulation))},
		},
	}, nil
}
