package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/summitops/conference-api/internal/domain"
)

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDuplicateSlug):
			writeError(w, http.StatusConflict, "A post with this slug already exists")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create post")
		}
		return
	}

	writeSuccess(w, http.StatusCreated, "Post created", post)
}

// ListPosts serves the public blog listing. Drafts are only included
// for includeDrafts=true requests carrying an admin token; without one
// the flag is ignored.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	publishedOnly := true
	if v := r.URL.Query().Get("includeDrafts"); v != "" {
		if includeDrafts, err := strconv.ParseBool(v); err == nil && includeDrafts && h.isAdminRequest(r) {
			publishedOnly = false
		}
	}

	posts, err := h.postService.List(r.Context(), publishedOnly, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list posts")
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	writeSuccess(w, http.StatusOK, "Posts", posts)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get post")
		return
	}

	writeSuccess(w, http.StatusOK, "Post retrieved", post)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	writeSuccess(w, http.StatusOK, "Post updated", post)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.postService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	writeSuccess(w, http.StatusOK, "Post deleted", nil)
}
