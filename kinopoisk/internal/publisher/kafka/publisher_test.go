package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"mediatracker/kinopoisk/pkg/model"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProducer struct {
	messages   []*kafka.Message
	deliverErr error
	noDelivery bool
	closed     bool
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	f.messages = append(f.messages, msg)
	if f.noDelivery {
		return nil
	}
	m := *msg
	m.TopicPartition.Error = f.deliverErr
	deliveryChan <- &m
	return nil
}

func (f *fakeProducer) Flush(int) int { return 0 }

func (f *fakeProducer) Close() { f.closed = true }

func TestPublish(t *testing.T) {
	fake := &fakeProducer{}
	p := newPublisher(fake, "imports", zap.NewNop())
	event := &model.ImportEvent{RunID: "r1", UserID: "u1", Status: model.ImportStatusSucceeded, TotalImported: 3, TotalConverted: 3}

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, fake.messages, 1)
	msg := fake.messages[0]
	assert.Equal(t, "imports", *msg.TopicPartition.Topic)
	assert.Equal(t, []byte("u1"), msg.Key)
	var got model.ImportEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, *event, got)

	p.Close()
	assert.True(t, fake.closed)
}

func TestPublishDeliveryError(t *testing.T) {
	p := newPublisher(&fakeProducer{deliverErr: errors.New("broker down")}, "imports", zap.NewNop())
	assert.ErrorContains(t, p.Publish(context.Background(), &model.ImportEvent{RunID: "r1"}), "broker down")
}

func TestPublishCanceled(t *testing.T) {
	p := newPublisher(&fakeProducer{noDelivery: true}, "imports", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, &model.ImportEvent{RunID: "r1"}), context.Canceled)
}
