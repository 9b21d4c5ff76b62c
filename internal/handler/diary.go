package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/daybookhq/daybook/internal/domain"
	"github.com/daybookhq/daybook/internal/service"
)

const (
	defaultPage = 0
	defaultSize = 20
)

// DiaryHandler handles diary-related HTTP requests. Every route behind it
// runs after RequireAuth, so the caller's user id is always in the context.
type DiaryHandler struct {
	diaries *service.DiaryService
}

// NewDiaryHandler creates a new DiaryHandler.
func NewDiaryHandler(diaries *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaries: diaries}
}

// HandleCreate creates a new diary entry owned by the caller.
// POST /diaries
func (h *DiaryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	in, err := readDiaryInput(r)
	if err != nil {
		writeDiaryError(w, err, 0)
		return
	}

	diary, err := h.diaries.Create(r.Context(), userID, in)
	if err != nil {
		writeDiaryError(w, err, 0)
		return
	}

	writeJSON(w, http.StatusCreated, toDiaryDTO(diary))
}

// HandleUpdate overwrites an owned entry.
// PUT /diaries/{id}
func (h *DiaryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid diary id.")
		return
	}

	in, err := readDiaryInput(r)
	if err != nil {
		writeDiaryError(w, err, id)
		return
	}

	diary, err := h.diaries.Update(r.Context(), userID, id, in)
	if err != nil {
		writeDiaryError(w, err, id)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryDTO(diary))
}

// HandleDelete hard-deletes an owned entry.
// DELETE /diaries/{id}
func (h *DiaryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid diary id.")
		return
	}

	if err := h.diaries.Delete(r.Context(), userID, id); err != nil {
		writeDiaryError(w, err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGet returns a single owned entry.
// GET /diaries/{id}
func (h *DiaryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid diary id.")
		return
	}

	diary, err := h.diaries.GetByID(r.Context(), userID, id)
	if err != nil {
		writeDiaryError(w, err, id)
		return
	}

	writeJSON(w, http.StatusOK, toDiaryDTO(diary))
}

// HandleList returns one page of the caller's entries.
// GET /diaries?page=&size=
func (h *DiaryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	page := intQueryValue(r, "page", defaultPage)
	size := intQueryValue(r, "size", defaultSize)

	result, err := h.diaries.List(r.Context(), userID, page, size)
	if err != nil {
		writeDiaryError(w, err, 0)
		return
	}

	writeJSON(w, http.StatusOK, toPageDTO(result))
}

// HandleSearch returns one page of the caller's entries matching the
// keyword. An empty or missing keyword matches all entries.
// GET /diaries/search?keyword=&page=&size=
func (h *DiaryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	keyword := r.URL.Query().Get("keyword")
	page := intQueryValue(r, "page", defaultPage)
	size := intQueryValue(r, "size", defaultSize)

	result, err := h.diaries.Search(r.Context(), userID, keyword, page, size)
	if err != nil {
		writeDiaryError(w, err, 0)
		return
	}

	writeJSON(w, http.StatusOK, toPageDTO(result))
}

// HandleExport streams the caller's full history as a downloadable JSON
// document.
// GET /diaries/export
func (h *DiaryHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	diaries, err := h.diaries.ExportAll(r.Context(), userID)
	if err != nil {
		writeDiaryError(w, err, 0)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="diaries-export.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(encodeDiaryExport(diaries))); err != nil {
		slog.Error("write export response", "error", err)
	}
}

// writeDiaryError maps service errors to HTTP responses. id is included in
// not-found messages when known.
func writeDiaryError(w http.ResponseWriter, err error, id int64) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("Diary entry %d not found.", id))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "No permission to access this diary entry.")
	case errors.Is(err, domain.ErrConstraint):
		writeError(w, http.StatusBadRequest, domain.ErrConstraint.Error())
	default:
		slog.Error("diary request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}

func readDiaryInput(r *http.Request) (service.DiaryInput, error) {
	var req DiaryRequest
	if err := readJSON(r, &req); err != nil {
		return service.DiaryInput{}, fmt.Errorf("%w: request body must be valid JSON", domain.ErrInvalidInput)
	}
	return req.toInput()
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func intQueryValue(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return parsed
}
