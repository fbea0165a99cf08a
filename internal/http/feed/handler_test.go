package feed_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/levy/internal/feed"
	handler "github.com/MrJamesThe3rd/levy/internal/http/feed"
)

// dataLines reads the stream until n data lines have arrived.
func dataLines(t *testing.T, sc *bufio.Scanner, n int) []string {
	t.Helper()

	var lines []string
	for len(lines) < n && sc.Scan() {
		if rest, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
			lines = append(lines, rest)
		}
	}

	require.Len(t, lines, n, "stream ended early: %v", sc.Err())

	return lines
}

func TestHandler_StreamsBacklogThenLiveEvents(t *testing.T) {
	hub := feed.NewHub()
	ctx := context.Background()

	require.NoError(t, hub.Publish(ctx, feed.Event{Type: feed.TypeCreated, Reference: "AMC-A", Status: "pending"}))
	require.NoError(t, hub.Publish(ctx, feed.Event{Type: feed.TypeCreated, Reference: "AMC-B", Status: "pending"}))

	r := chi.NewRouter()
	r.Route("/events", handler.NewHandler(hub).Routes)

	srv := httptest.NewServer(r)
	defer srv.Close()

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL+"/events?reference=AMC-A", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)

	backlog := dataLines(t, sc, 1)
	assert.Contains(t, backlog[0], `"reference":"AMC-A"`)

	// The subscription exists once the backlog has been flushed.
	require.NoError(t, hub.Publish(ctx, feed.Event{Type: feed.TypeTransition, Reference: "AMC-B", Status: "confirmed"}))
	require.NoError(t, hub.Publish(ctx, feed.Event{Type: feed.TypeTransition, Reference: "AMC-A", Status: "confirmed"}))

	live := dataLines(t, sc, 1)
	assert.Contains(t, live[0], `"status":"confirmed"`)
	assert.Contains(t, live[0], `"reference":"AMC-A"`)
}
