package handler

import (
	"net/http"
)

// Health is a liveness probe endpoint. When the garbage collector is running
// the stats of its last pass are included.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if h.gc != nil {
		resp["gc"] = h.gc.GetLastCleanupStats()
	}
	writeJSON(w, resp)
}
