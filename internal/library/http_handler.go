package library

import (
	"errors"
	"net/http"
	"strconv"

	"bookshelf/internal/httpx"
)

const (
	msgListFailed     = "Failed to fetch books."
	msgMissingFields  = "Please fill in all fields: title, author, page_count"
	msgAlreadyAdded   = "This book is already in your library."
	msgAddFailed      = "An error occurred while adding the book."
	msgBadIDNumber    = "Invalid book ID. Please provide a number."
	msgBadID          = "Invalid book ID."
	msgMissingPages   = "Please provide a progress_pages value."
	msgUpdateNotFound = "Book to update not found or you do not have access to it."
	msgUpdateFailed   = "An error occurred while updating reading progress."
	msgDeleteNotFound = "Book to delete not found or you do not have access to it."
	msgDeleteFailed   = "An error occurred while deleting the book."
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type addBookReq struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	PageCount int    `json:"page_count" validate:"required,gt=0,max=2147483647"`
}

type updateProgressReq struct {
	ProgressPages *int `json:"progress_pages" validate:"required,min=0,max=2147483647"`
}

// List handles GET /api/books
// @Summary List the caller's books
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Entry
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := httpx.UserFrom(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgTokenMissing, nil)
		return
	}

	entries, err := h.service.List(r.Context(), u.ID)
	if err != nil {
		httpx.ServerError(w, r, msgListFailed, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

// Add handles POST /api/books
// @Summary Add a book to the caller's library
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body addBookReq true "Book"
// @Success 201 {object} Entry
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	u, ok := httpx.UserFrom(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgTokenMissing, nil)
		return
	}

	var req addBookReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.DecodeError(w, err)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.Error(w, http.StatusBadRequest, msgMissingFields, details)
		return
	}

	entry, err := h.service.Add(r.Context(), u.ID, NewBook{
		Title:     req.Title,
		Author:    req.Author,
		PageCount: req.PageCount,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyInLibrary) {
			httpx.Error(w, http.StatusConflict, msgAlreadyAdded, nil)
			return
		}
		httpx.ServerError(w, r, msgAddFailed, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

// UpdateProgress handles PATCH /api/books/{userBookId}
// @Summary Update reading progress of a library entry
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userBookId path int true "Library entry ID"
// @Param request body updateProgressReq true "Progress"
// @Success 200 {object} Entry
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{userBookId} [patch]
func (h *HTTPHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	u, ok := httpx.UserFrom(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgTokenMissing, nil)
		return
	}

	id, ok := entryID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, msgBadIDNumber, nil)
		return
	}

	var req updateProgressReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.DecodeError(w, err)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.Error(w, http.StatusBadRequest, msgMissingPages, details)
		return
	}

	entry, err := h.service.UpdateProgress(r.Context(), u.ID, id, *req.ProgressPages)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, msgUpdateNotFound, nil)
			return
		}
		httpx.ServerError(w, r, msgUpdateFailed, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/books/{userBookId}
// @Summary Remove a book from the caller's library
// @Tags books
// @Security BearerAuth
// @Param userBookId path int true "Library entry ID"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{userBookId} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := httpx.UserFrom(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgTokenMissing, nil)
		return
	}

	id, ok := entryID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, msgBadID, nil)
		return
	}

	if err := h.service.Remove(r.Context(), u.ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, msgDeleteNotFound, nil)
			return
		}
		httpx.ServerError(w, r, msgDeleteFailed, err)
		return
	}
	httpx.NoContent(w)
}

func entryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("userBookId"), 10, 64)
	return id, err == nil
}
