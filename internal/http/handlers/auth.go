package handlers

import (
	"net/http"

	apierrors "github.com/Vladiumnika/forumblackdynasty/internal/errors"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		Challenge: in.Recaptcha,
		RemoteIP:  remoteIP(r),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	msg := "registered, check your email to verify the account"
	if !res.EmailSent {
		msg = "registered, but the verification email could not be sent"
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message:   msg,
		EmailSent: res.EmailSent,
		User:      userFrom(res.User),
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:     in.Email,
		Password:  in.Password,
		Challenge: in.Recaptcha,
		RemoteIP:  remoteIP(r),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensFrom(res.Tokens, res.User))
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.VerifyEmail(r.Context(), chi.URLParam(r, "token")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "email verified"})
}

func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.ResendVerification(r.Context(), in.Email); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "verification email sent"})
}

// ForgotPassword отвечает одинаково для известного и неизвестного email.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), in.Email); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "if the email exists, a reset link has been sent"})
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in resetPasswordRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), in.Token, in.Password); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensFrom(pair, nil))
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.Logout(r.Context(), in.RefreshToken); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
