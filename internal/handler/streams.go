package handler

import (
	"net/http"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/service"
)

// StreamHandler serves /api/streams.
type StreamHandler struct {
	streams *service.StreamService
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(streams *service.StreamService) *StreamHandler {
	return &StreamHandler{streams: streams}
}

type streamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req streamRequest) validate() error {
	verr := domain.NewValidationError()
	requireField(verr, "name", req.Name)
	maxLength(verr, "name", req.Name, domain.MaxStreamNameLength)
	maxLength(verr, "description", req.Description, domain.MaxStreamDescriptionLength)
	if verr.Empty() {
		return nil
	}
	return verr
}

func (h *StreamHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	streams, err := h.streams.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreamDTOs(streams))
}

func (h *StreamHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	stream, err := h.streams.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreamDTO(stream))
}

func (h *StreamHandler) HandleGetByName(w http.ResponseWriter, r *http.Request) {
	stream, err := h.streams.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreamDTO(stream))
}

func (h *StreamHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req streamRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	stream, err := h.streams.Create(r.Context(), service.StreamInput{Name: req.Name, Description: req.Description})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStreamDTO(stream))
}

func (h *StreamHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req streamRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	stream, err := h.streams.Update(r.Context(), id, service.StreamInput{Name: req.Name, Description: req.Description})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreamDTO(stream))
}

// HandleDelete removes a stream along with its posts.
func (h *StreamHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.streams.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Stream deleted successfully"})
}
