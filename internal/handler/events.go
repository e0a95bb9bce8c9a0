package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/service"
)

// EventsHandler handles SSE event streaming
type EventsHandler struct {
	eventHub        *service.EventHub
	activityService *service.ActivityService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(eventHub *service.EventHub, activityService *service.ActivityService) *EventsHandler {
	return &EventsHandler{
		eventHub:        eventHub,
		activityService: activityService,
	}
}

// Stream handles GET /activities/events?activity=
// Without the activity parameter every membership change is streamed.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	activity := r.URL.Query().Get("activity")
	if activity != service.AllActivities {
		if _, err := h.activityService.GetActivity(r.Context(), activity); err != nil {
			WriteError(w, r, MapServiceError(err))
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, model.NewInternalError("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Streams outlive the server's WriteTimeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	subscriberID := uuid.New().String()
	sub := h.eventHub.Subscribe(activity, subscriberID)
	defer h.eventHub.Unsubscribe(subscriberID)

	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			flusher.Flush()

		case <-sub.Done:
			return

		case <-r.Context().Done():
			return
		}
	}
}
