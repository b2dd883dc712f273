package auth

import (
	"errors"
	"net/http"

	"bookshelf/internal/httpx"
	"bookshelf/internal/identity"
)

const (
	msgRegisterFields = "Please provide email, password and username."
	msgLoginFields    = "Please provide email and password."
	msgNoUserReturned = "User was created but user data could not be retrieved."
	msgProfileFailed  = "An error occurred while creating the user profile: "
	msgLoggedOut      = "Successfully logged out."
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type registerReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	User identity.User `json:"user"`
}

type sessionResponse struct {
	Session identity.Session `json:"session"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerReq true "Registration request"
// @Success 201 {object} userResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.DecodeError(w, err)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.Error(w, http.StatusBadRequest, msgRegisterFields, details)
		return
	}

	u, err := h.service.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		var providerErr *ProviderError
		var profileErr *ProfileError
		switch {
		case errors.As(err, &providerErr):
			httpx.Error(w, http.StatusBadRequest, providerErr.Error(), nil)
		case errors.Is(err, ErrNoUserReturned):
			httpx.ServerError(w, r, msgNoUserReturned, err)
		case errors.As(err, &profileErr):
			httpx.ServerError(w, r, msgProfileFailed+profileErr.Error(), profileErr.Err)
		default:
			httpx.ServerError(w, r, httpx.MsgServerError, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, userResponse{User: u})
}

// Login handles POST /api/auth/login
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginReq true "Login request"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.DecodeError(w, err)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.Error(w, http.StatusBadRequest, msgLoginFields, details)
		return
	}

	sess, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			httpx.Error(w, http.StatusBadRequest, providerErr.Error(), nil)
			return
		}
		httpx.ServerError(w, r, httpx.MsgServerError, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{Session: sess})
}

// Logout handles POST /api/auth/logout
// @Summary End the caller's session
// @Tags auth
// @Produce json
// @Success 200 {object} messageResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := httpx.BearerToken(r)
	if err := h.service.Logout(r.Context(), token); err != nil {
		httpx.ServerError(w, r, err.Error(), err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: msgLoggedOut})
}
