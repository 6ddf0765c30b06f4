package handlers

import (
	"context"
	"net/http"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	apierrors "github.com/Vladiumnika/forumblackdynasty/internal/errors"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
	"github.com/go-chi/chi/v5"
)

// categories

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categoriesFrom(cats))
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var name string
	if in.Name != nil {
		name = *in.Name
	}

	cat, err := h.svc.CreateCategory(r.Context(), actor(r), service.CreateCategoryInput{
		Name:        name,
		Description: in.Description,
		Order:       in.Order,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, categoryFrom(*cat))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	cat, err := h.svc.UpdateCategory(r.Context(), actor(r), chi.URLParam(r, "categoryId"), service.UpdateCategoryInput{
		Name:        in.Name,
		Description: in.Description,
		Order:       in.Order,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categoryFrom(*cat))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), actor(r), chi.URLParam(r, "categoryId")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// topics

func (h *Handlers) ListTopics(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.svc.ListTopics(r.Context(), service.ListTopicsInput{
		CategoryID: chi.URLParam(r, "categoryId"),
		Query:      r.URL.Query().Get("q"),
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageFrom(res, topicFrom))
}

func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.svc.GlobalSearch(r.Context(), service.SearchInput{
		Query:    r.URL.Query().Get("q"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageFrom(res, topicFrom))
}

func (h *Handlers) GetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.svc.GetTopic(r.Context(), chi.URLParam(r, "topicId"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, topicFrom(*topic))
}

func (h *Handlers) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var in createTopicRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	topic, err := h.svc.CreateTopic(r.Context(), actor(r), service.CreateTopicInput{
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, topicFrom(*topic))
}

func (h *Handlers) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	var in updateTopicRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	topic, err := h.svc.UpdateTopic(r.Context(), actor(r), chi.URLParam(r, "topicId"), service.UpdateTopicInput{
		Title:    in.Title,
		Content:  in.Content,
		IsLocked: in.IsLocked,
		IsPinned: in.IsPinned,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, topicFrom(*topic))
}

func (h *Handlers) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTopic(r.Context(), actor(r), chi.URLParam(r, "topicId")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// comments

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.svc.ListComments(r.Context(), service.ListCommentsInput{
		TopicID:  chi.URLParam(r, "topicId"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageFrom(res, commentFrom))
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in createCommentRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	comment, err := h.svc.CreateComment(r.Context(), actor(r), service.CreateCommentInput{
		TopicID:  in.TopicID,
		Content:  in.Content,
		ParentID: in.ParentID,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentFrom(*comment))
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var in updateCommentRequest
	if err := h.decodeValid(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	comment, err := h.svc.UpdateComment(r.Context(), actor(r), chi.URLParam(r, "commentId"), in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentFrom(*comment))
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), actor(r), chi.URLParam(r, "commentId")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LikeComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.svc.LikeComment(r.Context(), chi.URLParam(r, "commentId"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentFrom(*comment))
}

// subscriptions & bookmarks

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.svc.Subscribe)
}

func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.svc.Unsubscribe)
}

func (h *Handlers) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.svc.Bookmark)
}

func (h *Handlers) Unbookmark(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.svc.Unbookmark)
}

type membershipFunc = func(ctx context.Context, actor access.Actor, topicID string) error

func (h *Handlers) membership(w http.ResponseWriter, r *http.Request, apply membershipFunc) {
	if err := apply(r.Context(), actor(r), chi.URLParam(r, "topicId")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
