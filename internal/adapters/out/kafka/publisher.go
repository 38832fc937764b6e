// Package kafka publishes outbox records to the lifecycle topic.
package kafka

import (
	"context"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/telemetry"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// KindHeader carries the event kind so consumers can route without decoding.
const KindHeader = "fulfillment-event-kind"

var producerTracer = otel.Tracer("fulfillment/kafka/producer")

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes lifecycle events keyed by item id, so the events of one
// item land on one partition in the order they were relayed.
type Publisher struct {
	writer      MessageWriter
	topic       string
	instruments *telemetry.Instruments
}

func NewPublisher(brokers []string, topic string, instruments *telemetry.Instruments) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           100 * time.Millisecond,
	}, topic, instruments)
}

func NewPublisherWithWriter(writer MessageWriter, topic string, instruments *telemetry.Instruments) *Publisher {
	return &Publisher{writer: writer, topic: topic, instruments: instruments}
}

// Publish writes records in one batch. Either every record was acknowledged
// or an error is returned and the caller keeps them for the next pass.
func (p *Publisher) Publish(ctx context.Context, records []ports.OutboxRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingBatchMessageCount(len(records)),
		),
	)
	defer span.End()

	msgs := make([]kafka.Message, len(records))
	for i, r := range records {
		msgs[i] = kafka.Message{
			Key:   []byte(partitionKey(r.Key)),
			Value: r.Payload,
			Headers: []kafka.Header{
				{Key: KindHeader, Value: []byte(r.Kind)},
			},
		}
		otel.GetTextMapPropagator().Inject(ctx, NewMessageCarrier(&msgs[i]))
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	for _, r := range records {
		p.instruments.RecordPublished(ctx, string(r.Kind))
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// partitionKey is the item id prefix of a natural key.
func partitionKey(naturalKey string) string {
	itemID, _, _ := strings.Cut(naturalKey, ":")
	return itemID
}
