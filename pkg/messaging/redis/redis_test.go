package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/notification-api/pkg/messaging"
)

func newTestBroker(t *testing.T) messaging.Broker {
	mr := miniredis.RunT(t)

	log := zerolog.Nop()
	broker, err := NewRedisBroker(Config{
		URL:          "redis://" + mr.Addr(),
		MaxRetries:   1,
		RetryBackoff: 10 * time.Millisecond,
		PoolSize:     2,
		MinIdleConns: 1,
	}, &log)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })
	return broker
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	broker := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := broker.Subscribe(ctx, messaging.TemplateChannel)
	require.NoError(t, err)

	event := messaging.TemplateEvent{
		Type:     messaging.TemplatePublished,
		TenantID: 7,
		Slug:     "invoice-status",
		Version:  4,
	}
	require.NoError(t, broker.Publish(ctx, messaging.TemplateChannel, event))

	select {
	case raw := <-msgs:
		var got messaging.TemplateEvent
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, event, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestSubscribeStopsOnContextCancel(t *testing.T) {
	broker := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())

	msgs, err := broker.Subscribe(ctx, messaging.TemplateChannel)
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-msgs:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel not closed after cancel")
	}
}

func TestBrokerRejectsBadURL(t *testing.T) {
	log := zerolog.Nop()
	_, err := NewRedisBroker(Config{URL: "not-a-url"}, &log)
	assert.Error(t, err)
}
