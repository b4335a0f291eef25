package handler

import (
	"net/http"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/service"
)

// PostHandler serves /api/posts.
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

type postRequest struct {
	Content string `json:"content"`
}

func (req postRequest) validate() error {
	verr := domain.NewValidationError()
	requireField(verr, "content", req.Content)
	maxLength(verr, "content", req.Content, domain.MaxPostContentLength)
	if verr.Empty() {
		return nil
	}
	return verr
}

// HandleList returns one page of all posts.
// GET /api/posts?page=0&size=10
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := h.posts.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostPageDTO(result))
}

func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleListByStream returns one page of the posts in {streamId}.
func (h *PostHandler) HandleListByStream(w http.ResponseWriter, r *http.Request) {
	streamID, err := pathID(r, "streamId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := pageRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := h.posts.ListByStream(r.Context(), streamID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostPageDTO(result))
}

// HandleListByUser returns one page of the posts written by {userId}.
func (h *PostHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := pageRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := h.posts.ListByUser(r.Context(), userID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostPageDTO(result))
}

// HandleCreate publishes a post by {userId} in {streamId}.
// POST /api/posts/user/{userId}/stream/{streamId}
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	streamID, err := pathID(r, "streamId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req postRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	post, err := h.posts.Create(r.Context(), req.Content, userID, streamID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostDTO(post))
}

func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req postRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	post, err := h.posts.Update(r.Context(), id, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.posts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Post deleted successfully"})
}
