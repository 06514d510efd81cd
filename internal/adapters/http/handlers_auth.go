package http

import (
	"net/http"

	"github.com/taskpilot/taskpilot/internal/application"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}
	writeSuccess(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) googleLogin(w http.ResponseWriter, r *http.Request) {
	start, err := h.service.GoogleLoginURL(r.Context(), r.URL.Query().Get("redirect_after"))
	if err != nil {
		writeMappedError(r.Context(), w, "google_login", err)
		return
	}
	http.Redirect(w, r, start.AuthorizeURL, http.StatusFound)
}

func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	res, err := h.service.CompleteGoogleLogin(r.Context(), code, state)
	if err != nil {
		writeMappedError(r.Context(), w, "google_callback", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
