package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkain "fulfillment/internal/adapters/in/kafka"
	"fulfillment/internal/core/domain/events"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonMessage(msg events.Message) ([]byte, error) {
	return json.Marshal(msg)
}

var errDrained = errors.New("drained")

type scriptedReader struct {
	queue     []kafka.Message
	committed []int64
}

func (r *scriptedReader) FetchMessage(context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		return kafka.Message{}, errDrained
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func TestConsumer_CommitsHandledMessages(t *testing.T) {
	reader := &scriptedReader{queue: []kafka.Message{
		{Offset: 7, Value: []byte("a")},
		{Offset: 8, Value: []byte("b")},
	}}
	var seen []string

	err := kafkain.NewConsumerWithReader(reader, "lifecycle", "notifier").
		Consume(context.Background(), func(_ context.Context, payload []byte) error {
			seen = append(seen, string(payload))
			return nil
		})

	assert.ErrorIs(t, err, errDrained)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, []int64{7, 8}, reader.committed)
}

func TestConsumer_StopsWithoutCommittingFailedMessage(t *testing.T) {
	reader := &scriptedReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte("ok")},
		{Offset: 2, Value: []byte("bad")},
		{Offset: 3, Value: []byte("never")},
	}}
	boom := errors.New("sink down")

	err := kafkain.NewConsumerWithReader(reader, "lifecycle", "notifier").
		Consume(context.Background(), func(_ context.Context, payload []byte) error {
			if string(payload) == "bad" {
				return boom
			}
			return nil
		})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int64{1}, reader.committed)
	assert.Len(t, reader.queue, 1)
}
