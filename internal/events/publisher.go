package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/models"
)

// KafkaPublisher sends settlement events to a topic named after the event
// type, keyed by correlation id so one transaction's events stay ordered.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: logger}
}

// NewSyncProducer dials brokers, retrying while they come up.
func NewSyncProducer(brokers []string, attempts int, wait time.Duration, logger *zap.Logger) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Partitioner = sarama.NewHashPartitioner

	var err error
	for i := 1; i <= attempts; i++ {
		var producer sarama.SyncProducer
		producer, err = sarama.NewSyncProducer(brokers, config)
		if err == nil {
			logger.Info("kafka producer ready", zap.Strings("brokers", brokers))
			return producer, nil
		}
		logger.Warn("waiting for kafka", zap.Int("attempt", i), zap.Int("of", attempts), zap.Error(err))
		if i < attempts {
			time.Sleep(wait)
		}
	}
	return nil, fmt.Errorf("start kafka producer: %w", err)
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

// Publish sends event and waits for the broker until ctx is done. A send
// abandoned on ctx still completes in the background; only its result is lost.
func (p *KafkaPublisher) Publish(ctx context.Context, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: event.EventType,
		Key:   sarama.StringEncoder(event.Data.CorrelationID),
		Value: sarama.ByteEncoder(data),
	}
	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	var res sendResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return fmt.Errorf("send %s event: %w", event.EventType, ctx.Err())
	}
	if res.err != nil {
		return fmt.Errorf("send %s event: %w", event.EventType, res.err)
	}

	p.logger.Info("published settlement event",
		zap.String("topic", event.EventType),
		zap.String("correlation_id", event.Data.CorrelationID),
		zap.Int32("partition", res.partition),
		zap.Int64("offset", res.offset),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event models.Event) error {
	p.logger.Info("settlement event",
		zap.String("event_type", event.EventType),
		zap.String("correlation_id", event.Data.CorrelationID),
		zap.String("status", string(event.Data.Status)),
		zap.Int64("amount", event.Data.Amount),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
