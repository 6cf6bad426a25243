package handler

import (
	"net/http"

	"github.com/apexcharge/paddock/shared/domain"
	mw "github.com/apexcharge/paddock/shared/middleware"
	"github.com/apexcharge/paddock/shared/utils"
	"github.com/go-chi/chi/v5"
)

type createThreadRequest struct {
	Title    string          `json:"title" validate:"required"`
	Content  string          `json:"content" validate:"required"`
	Category domain.Category `json:"category"`
}

// editThreadRequest fields are optional; absent ones are left unchanged.
type editThreadRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type voteRequest struct {
	Kind domain.VoteKind `json:"kind" validate:"required"`
}

func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := h.threads.Browse(r.Context(), domain.ThreadQuery{
		Search:   q.Get("q"),
		Category: domain.Category(q.Get("category")),
		Page:     pageParam(r),
	})
	writeJSON(w, page)
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var body createThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.threads.Create(r.Context(), mw.GetActorFromContext(r), body.Title, body.Content, body.Category)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, thread)
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	detail, err := h.threads.Detail(r.Context(), chi.URLParam(r, "thread"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, detail)
}

func (h *Handler) EditThread(w http.ResponseWriter, r *http.Request) {
	var body editThreadRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.threads.Edit(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "thread"), body.Title, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, thread)
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	if err := h.threads.Delete(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "thread")); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ViewThread(w http.ResponseWriter, r *http.Request) {
	thread, err := h.threads.BumpView(r.Context(), chi.URLParam(r, "thread"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, map[string]int64{"viewCount": thread.ViewCount})
}

func (h *Handler) GetThreadVote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.threads.GetVote(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "thread")))
}

func (h *Handler) VoteThread(w http.ResponseWriter, r *http.Request) {
	var body voteRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	result, err := h.threads.Vote(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "thread"), body.Kind)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, result)
}
