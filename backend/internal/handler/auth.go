package handler

import (
	"net/http"

	mw "github.com/apexcharge/paddock/shared/middleware"
	"github.com/apexcharge/paddock/shared/utils"
)

type credentials struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, actor, err := h.auth.Login(creds.Email, creds.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.sessions.SetSessionCookie(w, accessToken, int(h.cfg.JwtTTL().Seconds()))

	writeJSON(w, actor)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSessionCookie(w)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetActorFromContext(r)
	if actor == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, actor)
}
