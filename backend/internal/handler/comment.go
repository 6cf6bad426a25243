package handler

import (
	"net/http"

	mw "github.com/apexcharge/paddock/shared/middleware"
	"github.com/apexcharge/paddock/shared/utils"
	"github.com/go-chi/chi/v5"
)

type bodyRequest struct {
	Body string `json:"body" validate:"required"`
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	page, err := h.comments.ListComments(r.Context(), chi.URLParam(r, "thread"), pageParam(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, page)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req bodyRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comments.AddComment(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "thread"), req.Body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, comment)
}

func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	var req bodyRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comments.EditComment(r.Context(), mw.GetActorFromContext(r),
		chi.URLParam(r, "thread"), chi.URLParam(r, "comment"), req.Body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, comment)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.comments.DeleteComment(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "thread"), chi.URLParam(r, "comment"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	page, err := h.comments.ListReplies(r.Context(), chi.URLParam(r, "thread"), chi.URLParam(r, "comment"), pageParam(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, page)
}

func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	var req bodyRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reply, err := h.comments.AddReply(r.Context(), mw.GetActorFromContext(r),
		chi.URLParam(r, "thread"), chi.URLParam(r, "comment"), req.Body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, reply)
}

func (h *Handler) EditReply(w http.ResponseWriter, r *http.Request) {
	var req bodyRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reply, err := h.comments.EditReply(r.Context(), mw.GetActorFromContext(r),
		chi.URLParam(r, "thread"), chi.URLParam(r, "comment"), chi.URLParam(r, "reply"), req.Body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, reply)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	err := h.comments.DeleteReply(r.Context(), mw.GetActorFromContext(r),
		chi.URLParam(r, "thread"), chi.URLParam(r, "comment"), chi.URLParam(r, "reply"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
