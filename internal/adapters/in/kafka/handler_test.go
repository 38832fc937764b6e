package kafka_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkain "fulfillment/internal/adapters/in/kafka"
	"fulfillment/internal/core/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDedup struct{ mock.Mock }

func (m *MockDedup) MarkIfNew(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockDedup) Forget(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockSink struct{ mock.Mock }

func (m *MockSink) Deliver(ctx context.Context, msg events.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const itemID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func payload(t *testing.T) []byte {
	t.Helper()
	data, err := jsonMessage(events.Message{
		EventID:    "e-1",
		Kind:       events.OrderConfirmed,
		NaturalKey: itemID + ":order_confirmed",
		ItemID:     itemID,
		OccurredAt: time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return data
}

func TestNotificationHandler_DeliversFreshEvent(t *testing.T) {
	dedup, sink := &MockDedup{}, &MockSink{}
	dedup.On("MarkIfNew", mock.Anything, itemID+":order_confirmed").Return(true, nil).Once()
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(m events.Message) bool {
		return m.Kind == events.OrderConfirmed && m.ItemID == itemID
	})).Return(nil).Once()

	err := kafkain.NewNotificationHandler(dedup, sink, discardLogger()).Handle(context.Background(), payload(t))

	require.NoError(t, err)
	sink.AssertExpectations(t)
}

func TestNotificationHandler_SkipsDuplicate(t *testing.T) {
	dedup, sink := &MockDedup{}, &MockSink{}
	dedup.On("MarkIfNew", mock.Anything, mock.Anything).Return(false, nil).Once()

	err := kafkain.NewNotificationHandler(dedup, sink, discardLogger()).Handle(context.Background(), payload(t))

	require.NoError(t, err)
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestNotificationHandler_ForgetsKeyWhenSinkFails(t *testing.T) {
	dedup, sink := &MockDedup{}, &MockSink{}
	boom := errors.New("gateway timeout")
	dedup.On("MarkIfNew", mock.Anything, mock.Anything).Return(true, nil).Once()
	dedup.On("Forget", mock.Anything, itemID+":order_confirmed").Return(nil).Once()
	sink.On("Deliver", mock.Anything, mock.Anything).Return(boom).Once()

	err := kafkain.NewNotificationHandler(dedup, sink, discardLogger()).Handle(context.Background(), payload(t))

	assert.ErrorIs(t, err, boom)
	dedup.AssertExpectations(t)
}

func TestNotificationHandler_DropsMalformedPayload(t *testing.T) {
	dedup, sink := &MockDedup{}, &MockSink{}

	err := kafkain.NewNotificationHandler(dedup, sink, discardLogger()).Handle(context.Background(), []byte(`{"kind":`))

	require.NoError(t, err)
	dedup.AssertNotCalled(t, "MarkIfNew", mock.Anything, mock.Anything)
}

func TestNotificationHandler_StoreErrorRedelivers(t *testing.T) {
	dedup, sink := &MockDedup{}, &MockSink{}
	boom := errors.New("badger closed")
	dedup.On("MarkIfNew", mock.Anything, mock.Anything).Return(false, boom).Once()

	err := kafkain.NewNotificationHandler(dedup, sink, discardLogger()).Handle(context.Background(), payload(t))

	assert.ErrorIs(t, err, boom)
}
