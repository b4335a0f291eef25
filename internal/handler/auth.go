package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req signUpRequest) validate() error {
	verr := domain.NewValidationError()
	requireField(verr, "username", req.Username)
	requireField(verr, "email", req.Email)
	checkEmail(verr, "email", req.Email)
	requireField(verr, "password", req.Password)
	if verr.Empty() {
		return nil
	}
	return verr
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req signInRequest) validate() error {
	verr := domain.NewValidationError()
	requireField(verr, "username", req.Username)
	requireField(verr, "password", req.Password)
	if verr.Empty() {
		return nil
	}
	return verr
}

// HandleSignUp registers a new account.
// POST /api/auth/signup
// Request:  {"username":"...","email":"...","password":"..."}
// Response: {"success":true,"message":"User registered successfully"}
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if _, err := h.auth.SignUp(r.Context(), req.Username, req.Email, req.Password); err != nil {
		// Signup reports duplicates as a plain bad request.
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeError(w, r, http.StatusBadRequest, publicMessage(err, domain.ErrAlreadyExists))
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Message: "User registered successfully"})
}

// HandleSignIn exchanges credentials for a bearer token.
// POST /api/auth/signin
// Request:  {"username":"...","password":"..."}
// Response: {"accessToken":"...","tokenType":"Bearer"}
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.auth.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}
