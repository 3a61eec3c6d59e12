package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/config"
	"github.com/medbook/booking-engine/internal/event"
)

// Producer publishes booking confirmations to Kafka. SyncProducer with
// WaitForAll acks gives at-least-once semantics; the caller decides whether a
// publish failure matters.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewProducer(cfg config.KafkaConfig, log *zap.Logger) (*Producer, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = cfg.RetryMax
	sc.Producer.Return.Successes = true
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}

	return &Producer{producer: p, topic: cfg.BookingTopic, log: log}, nil
}

func (p *Producer) Publish(_ context.Context, ev event.BookingConfirmation) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding booking confirmation: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.PatientEmail),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("publishing booking confirmation: %w", err)
	}

	p.log.Debug("booking confirmation published",
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
