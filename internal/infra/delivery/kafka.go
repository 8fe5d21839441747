package delivery

import (
	"context"
	"log/slog"
	"strings"

	"autoservice-workflow/internal/pkg/errs"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const topicHeader = "delivery-topic"

// KafkaChannel forwards pushes to one Kafka topic; the recipient topic travels as the message
// key so a gateway can fan out per recipient while keeping per-recipient ordering.
type KafkaChannel struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewKafkaChannel(brokers []string, topic string, logger *slog.Logger) (*KafkaChannel, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": strings.Join(brokers, ","),
		"compression.type":  "snappy",
		"acks":              "all",
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to create Kafka producer")
	}
	return &KafkaChannel{
		producer: p,
		topic:    topic,
		logger:   logger,
		tracer:   otel.Tracer("autoservice-workflow/delivery"),
	}, nil
}

func (c *KafkaChannel) Publish(ctx context.Context, topic string, payload []byte) error {
	_, span := c.tracer.Start(ctx, "KafkaPublish")
	defer span.End()

	deliveryChan := make(chan kafka.Event, 1)
	err := c.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &c.topic, Partition: kafka.PartitionAny},
		Key:            []byte(topic),
		Value:          payload,
		Headers:        []kafka.Header{{Key: topicHeader, Value: []byte(topic)}},
	}, deliveryChan)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to produce message")
		return errs.Wrap(err, "failed to produce message")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return errs.Newf("unexpected delivery event %T", e)
		}
		if m.TopicPartition.Error != nil {
			span.RecordError(m.TopicPartition.Error)
			span.SetStatus(codes.Error, "Delivery failed")
			return errs.Wrap(m.TopicPartition.Error, "delivery failed")
		}
		span.SetAttributes(
			attribute.String("topic", topic),
			attribute.Int("partition", int(m.TopicPartition.Partition)),
			attribute.Int64("offset", int64(m.TopicPartition.Offset)),
		)
	}
	return nil
}

func (c *KafkaChannel) Close() {
	c.logger.Info("Closing Kafka producer")
	c.producer.Flush(5000)
	c.producer.Close()
}
