package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/levy/internal/feed"
)

const heartbeatInterval = 15 * time.Second

type Stream interface {
	Subscribe() (*feed.Subscription, []feed.Event)
}

// Handler streams payment events to dashboards as server-sent events.
type Handler struct {
	stream    Stream
	heartbeat time.Duration
}

func NewHandler(stream Stream) *Handler {
	return &Handler{stream: stream, heartbeat: heartbeatInterval}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.events)
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	reference := r.URL.Query().Get("reference")

	sub, backlog := h.stream.Subscribe()
	defer sub.Close()

	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := io.WriteString(w, "retry: 2000\n\n"); err != nil {
		return
	}

	for _, ev := range backlog {
		if err := writeEvent(w, reference, ev); err != nil {
			return
		}
	}
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-sub.Events():
			if err := writeEvent(w, reference, ev); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent skips events for other payments when reference is set.
func writeEvent(w io.Writer, reference string, ev feed.Event) error {
	if reference != "" && ev.Reference != reference {
		return nil
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)

	return err
}
