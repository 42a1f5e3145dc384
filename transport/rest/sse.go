package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/events"
)

// StreamEvents - server-sent events stream of one game's orchestration
// events. The persisted event log is replayed first, so a late subscriber
// catches up on everything that already happened, then the stream stays open
// with live events until the client disconnects.
func (that *handlers) StreamEvents(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// subscribe before replaying, so events emitted while the log is read
	// are buffered on the subscription instead of lost
	sub, cancel := that.stream.Subscribe(gameID)
	defer cancel()

	that.logger.Debug("event stream opened", "game_id", gameID)

	replay, err := that.history.ListByGame(r.Context(), gameID)
	if err != nil {
		that.logger.Error("failed to replay event log", "game_id", gameID, "error", err)
	}

	for _, record := range replay {
		that.writeEvent(w, flusher, events.Event{
			GameID:    record.GameID,
			Type:      record.Type,
			Payload:   record.Payload,
			Timestamp: record.Timestamp,
		})
	}

	for {
		select {
		case <-r.Context().Done():
			that.logger.Debug("event stream closed", "game_id", gameID)
			return
		case event := <-sub:
			that.writeEvent(w, flusher, event)
		}
	}
}

func (that *handlers) writeEvent(w http.ResponseWriter, flusher http.Flusher, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		that.logger.Error("failed to marshal event", "game_id", event.GameID, "error", err)
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	flusher.Flush()
}
