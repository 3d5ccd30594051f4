package repository

import (
	"context"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	pkgkafka "FinSight/pkg/kafka"
)

// Producer is the subset of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaAlertPublisher writes alerts as JSON keyed by symbol, so one symbol's
// alerts stay ordered within a partition.
type KafkaAlertPublisher struct {
	producer Producer
	topic    string
}

var (
	_ domrepo.AlertPublisher = (*KafkaAlertPublisher)(nil)
	_ Producer               = (*pkgkafka.Producer)(nil)
)

func NewKafkaAlertPublisher(producer Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlert(ctx context.Context, a models.RiskAlert) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Symbol), a)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
