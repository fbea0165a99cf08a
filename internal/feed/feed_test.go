package feed_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/levy/internal/feed"
)

func event(ref string) feed.Event {
	return feed.Event{
		Type:      feed.TypeTransition,
		Reference: ref,
		Status:    "confirmed",
		Amount:    150000,
		At:        time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestHub_SubscribeReceivesHistoryAndLiveEvents(t *testing.T) {
	hub := feed.NewHub()
	ctx := context.Background()

	require.NoError(t, hub.Publish(ctx, event("AMC-1")))

	sub, history := hub.Subscribe()
	defer sub.Close()

	assert.Equal(t, []feed.Event{event("AMC-1")}, history)

	require.NoError(t, hub.Publish(ctx, event("AMC-2")))

	select {
	case got := <-sub.Events():
		assert.Equal(t, "AMC-2", got.Reference)
	case <-time.After(time.Second):
		t.Fatal("no live event")
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := feed.NewHub()

	sub, _ := hub.Subscribe()
	defer sub.Close()

	done := make(chan struct{})

	go func() {
		for range feed.DefaultSubscriberBuffer * 3 {
			hub.Publish(context.Background(), event("AMC-1"))
		}

		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a full subscriber")
	}

	assert.Len(t, sub.Events(), feed.DefaultSubscriberBuffer)
}

func TestHub_HistoryIsBounded(t *testing.T) {
	hub := feed.NewHub()

	for range feed.DefaultHistory + 10 {
		hub.Publish(context.Background(), event("AMC-1"))
	}

	sub, history := hub.Subscribe()
	defer sub.Close()

	assert.Len(t, history, feed.DefaultHistory)
}

func TestFanout_AttemptsEverySink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	errKafka := errors.New("broker unavailable")

	first := feed.NewMockPublisher(ctrl)
	second := feed.NewMockPublisher(ctrl)
	first.EXPECT().Publish(gomock.Any(), event("AMC-1")).Return(errKafka)
	second.EXPECT().Publish(gomock.Any(), event("AMC-1")).Return(nil)

	err := feed.Fanout{first, second}.Publish(context.Background(), event("AMC-1"))
	assert.ErrorIs(t, err, errKafka)
}

type recorder struct {
	mu     sync.Mutex
	events []feed.Event
}

func (r *recorder) Publish(_ context.Context, ev feed.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)

	return nil
}

func TestAsync_FlushesOnShutdown(t *testing.T) {
	rec := &recorder{}
	async := feed.NewAsync(rec, 8)

	for _, ref := range []string{"AMC-1", "AMC-2", "AMC-3"} {
		require.NoError(t, async.Publish(context.Background(), event(ref)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go async.Run(ctx)
	cancel()

	select {
	case <-async.Done():
	case <-time.After(time.Second):
		t.Fatal("async publisher did not stop")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	assert.Len(t, rec.events, 3)
}

func TestAsync_DropsWhenFull(t *testing.T) {
	rec := &recorder{}
	async := feed.NewAsync(rec, 1)

	require.NoError(t, async.Publish(context.Background(), event("AMC-1")))
	require.NoError(t, async.Publish(context.Background(), event("AMC-2")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	async.Run(ctx)

	assert.Equal(t, []feed.Event{event("AMC-1")}, rec.events)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_Publish(t *testing.T) {
	w := &fakeWriter{}
	sink := feed.NewKafkaSinkWithWriter(w)

	require.NoError(t, sink.Publish(context.Background(), event("AMC-HOT-1-ABC123")))
	require.NoError(t, sink.Close())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "AMC-HOT-1-ABC123", string(w.msgs[0].Key))
	assert.True(t, w.closed)

	var got feed.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, event("AMC-HOT-1-ABC123"), got)
}

func TestKafkaSink_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}

	err := feed.NewKafkaSinkWithWriter(w).Publish(context.Background(), event("AMC-1"))
	assert.ErrorContains(t, err, "leader not available")
}
