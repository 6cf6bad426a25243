package handler

import (
	"net/http"

	mw "github.com/apexcharge/paddock/shared/middleware"
	"github.com/apexcharge/paddock/shared/utils"
)

type deleteThreadsRequest struct {
	Ids []string `json:"ids" validate:"required,min=1,dive,required"`
}

func (h *Handler) MyThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.activity.Threads(r.Context(), mw.GetActorFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, threads)
}

func (h *Handler) MyComments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.activity.Comments(r.Context(), mw.GetActorFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, rows)
}

func (h *Handler) MyPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.activity.Photos(r.Context(), mw.GetActorFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, toPhotoResponses(photos))
}

func (h *Handler) DeleteMyThreads(w http.ResponseWriter, r *http.Request) {
	var body deleteThreadsRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	results, err := h.activity.DeleteThreads(r.Context(), mw.GetActorFromContext(r), body.Ids)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, results)
}
