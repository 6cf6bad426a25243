package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/logger"
	mw "github.com/apexcharge/paddock/shared/middleware"
)

type Handler struct {
	auth     service.AuthService
	threads  service.ThreadService
	comments service.CommentService
	media    service.MediaService
	activity service.ActivityService
	gc       *service.ContentGarbageCollector
	sessions *mw.Auth
	cfg      *config.Config
}

type Services struct {
	Auth     service.AuthService
	Threads  service.ThreadService
	Comments service.CommentService
	Media    service.MediaService
	Activity service.ActivityService
	GC       *service.ContentGarbageCollector
}

func New(s Services, sessions *mw.Auth, cfg *config.Config) *Handler {
	return &Handler{
		auth:     s.Auth,
		threads:  s.Threads,
		comments: s.Comments,
		media:    s.Media,
		activity: s.Activity,
		gc:       s.GC,
		sessions: sessions,
		cfg:      cfg,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "component", "http", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}

// pageParam reads ?page=, defaulting to 1. Bad values are treated as 1;
// out-of-range pages are clamped by the services.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
