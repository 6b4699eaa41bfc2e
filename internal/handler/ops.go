package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-desk/internal/logging"
	"github.com/olegiv/ocms-desk/internal/notify"
	"github.com/olegiv/ocms-desk/internal/scheduler"
)

// OpsHandler serves the notification feed and operator diagnostics.
type OpsHandler struct {
	feed   *notify.Feed
	events *logging.EventLog
	jobs   *scheduler.Scheduler
}

// NewOpsHandler creates an OpsHandler. events and jobs may be nil.
func NewOpsHandler(feed *notify.Feed, events *logging.EventLog, jobs *scheduler.Scheduler) *OpsHandler {
	return &OpsHandler{feed: feed, events: events, jobs: jobs}
}

// Notifications handles GET /api/notifications.
func (h *OpsHandler) Notifications(w http.ResponseWriter, _ *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"notifications": h.feed.Active(),
		"ttl_ms":        h.feed.TTL().Milliseconds(),
	})
}

// DismissNotification handles DELETE /api/notifications/{id}.
func (h *OpsHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	if !h.feed.Dismiss(chi.URLParam(r, "id")) {
		writeJSONError(w, http.StatusNotFound, "Notification not found")
		return
	}
	writeJSONSuccess(w, nil)
}

// Events handles GET /api/events: recent warnings and errors, oldest first.
func (h *OpsHandler) Events(w http.ResponseWriter, _ *http.Request) {
	events := []logging.Event{}
	if h.events != nil {
		events = h.events.Events()
	}
	writeJSONSuccess(w, map[string]any{"events": events})
}

// Jobs handles GET /api/jobs.
func (h *OpsHandler) Jobs(w http.ResponseWriter, _ *http.Request) {
	jobs := []scheduler.JobInfo{}
	if h.jobs != nil {
		jobs = h.jobs.Jobs()
	}
	writeJSONSuccess(w, map[string]any{"jobs": jobs})
}
