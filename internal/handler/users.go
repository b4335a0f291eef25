package handler

import (
	"net/http"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/service"
)

// UserHandler serves /api/users.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req userRequest) validate(requirePassword bool) error {
	verr := domain.NewValidationError()
	requireField(verr, "username", req.Username)
	requireField(verr, "email", req.Email)
	checkEmail(verr, "email", req.Email)
	if requirePassword {
		requireField(verr, "password", req.Password)
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func (req userRequest) input() service.UserInput {
	return service.UserInput{Username: req.Username, Email: req.Email, Password: req.Password}
}

// HandleList returns all users.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

// HandleGet returns the user named by {id}.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleGetByUsername returns the user named by {username}.
func (h *UserHandler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleCreate creates a user.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(true); err != nil {
		writeServiceError(w, r, err)
		return
	}
	user, err := h.users.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleUpdate replaces a user's username and email, and the password when
// one is supplied.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req userRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(false); err != nil {
		writeServiceError(w, r, err)
		return
	}
	user, err := h.users.Update(r.Context(), id, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleDelete removes a user and the user's posts.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "User deleted successfully"})
}
