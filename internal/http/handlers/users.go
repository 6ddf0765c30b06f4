package handlers

import (
	"net/http"

	apierrors "github.com/Vladiumnika/forumblackdynasty/internal/errors"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), actor(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userFrom(user))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in updateMeRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.svc.UpdateMe(r.Context(), actor(r), service.UpdateProfileInput{
		AvatarURL: in.AvatarURL,
		Bio:       in.Bio,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userFrom(user))
}

func (h *Handlers) AvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	var in avatarUploadRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	info, err := h.svc.AvatarUploadURL(r.Context(), actor(r), in.ContentType, in.ContentLength)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, avatarUploadFrom(info))
}

func (h *Handlers) ConfirmAvatar(w http.ResponseWriter, r *http.Request) {
	var in avatarConfirmRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.svc.ConfirmAvatar(r.Context(), actor(r), in.AvatarKey)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userFrom(user))
}

// admin

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r.URL.Query().Get("limit"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("limit"))
		return
	}

	users, err := h.svc.ListUsers(r.Context(), actor(r), r.URL.Query().Get("q"), limit)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]userSummaryResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userSummaryFrom(u))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) SetUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("user id"))
		return
	}

	var in setRoleRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.svc.SetUserRole(r.Context(), actor(r), userID, models.Role(in.Role))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userSummaryFrom(*user))
}
