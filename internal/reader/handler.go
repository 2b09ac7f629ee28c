package reader

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/auth"
	"github.com/taiwoajasa245/quran-reader/internal/bookmark"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
	"github.com/taiwoajasa245/quran-reader/pkg/response"
)

type ReaderHandler struct {
	service ReaderService
}

func NewReaderHandler(service ReaderService) ReaderHandler {
	return ReaderHandler{service: service}
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, quran.ErrInvalidChapter), errors.Is(err, quran.ErrInvalidVerse):
		response.Error(w, http.StatusBadRequest, message, err.Error())
	case errors.Is(err, quran.ErrNotFound), errors.Is(err, bookmark.ErrIndexOutOfRange):
		response.Error(w, http.StatusNotFound, message, err.Error())
	case errors.Is(err, quran.ErrUpstream):
		response.Error(w, http.StatusBadGateway, message, err.Error())
	default:
		log.Error().Err(err).Msg(message)
		response.Error(w, http.StatusInternalServerError, message, err.Error())
	}
}

func intParam(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	return n, err == nil
}

func (h *ReaderHandler) ListChaptersHandler(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.service.ListChapters(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get chapters")
		return
	}
	response.Success(w, chapters, "successfully")
}

func (h *ReaderHandler) GetChapterHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := intParam(r, "number")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid chapter number", chi.URLParam(r, "number"))
		return
	}

	detail, err := h.service.GetChapter(r.Context(), number)
	if err != nil {
		writeError(w, err, "Failed to get chapter")
		return
	}
	response.Success(w, detail, "successfully")
}

func (h *ReaderHandler) GetVerseHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := intParam(r, "number")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid chapter number", chi.URLParam(r, "number"))
		return
	}
	verse, ok := intParam(r, "verse")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid verse number", chi.URLParam(r, "verse"))
		return
	}

	detail, err := h.service.GetVerse(r.Context(), number, verse)
	if err != nil {
		writeError(w, err, "Failed to get verse")
		return
	}
	response.Success(w, detail, "successfully")
}

func (h *ReaderHandler) ListChapterBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	items, err := h.service.ListChapterBookmarks(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to get chapter bookmarks")
		return
	}
	response.Success(w, items, "successfully")
}

func (h *ReaderHandler) ToggleChapterBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req ToggleChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if req.Surah == 0 {
		response.Error(w, http.StatusBadRequest, "Missing required fields", map[string]string{
			"surah": "surah is required",
		})
		return
	}

	saved, err := h.service.ToggleChapterBookmark(r.Context(), userID, req.Surah)
	if err != nil {
		writeError(w, err, "Failed to toggle chapter bookmark")
		return
	}
	response.Success(w, ToggleResponse{IsSaved: saved}, "successfully")
}

// RemoveChapterBookmarkHandler deletes the entry at the zero-based {index}
// of the list returned by GET /bookmarks/chapters.
func (h *ReaderHandler) RemoveChapterBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}
	index, ok := intParam(r, "index")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid index", chi.URLParam(r, "index"))
		return
	}

	if err := h.service.RemoveChapterBookmark(r.Context(), userID, index); err != nil {
		writeError(w, err, "Failed to remove chapter bookmark")
		return
	}
	response.Success(w, "Ok", "successfully")
}

func (h *ReaderHandler) ListVerseBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	chapter := 0
	if raw := r.URL.Query().Get("surah"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid surah filter", raw)
			return
		}
		chapter = n
	}

	items, err := h.service.ListVerseBookmarks(r.Context(), userID, chapter)
	if err != nil {
		writeError(w, err, "Failed to get verse bookmarks")
		return
	}
	response.Success(w, items, "successfully")
}

func (h *ReaderHandler) ToggleVerseBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req ToggleVerseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if req.Surah == 0 || req.Ayat == 0 {
		response.Error(w, http.StatusBadRequest, "Missing required fields", map[string]string{
			"surah": "surah is required",
			"ayat":  "ayat is required",
		})
		return
	}

	saved, err := h.service.ToggleVerseBookmark(r.Context(), userID, req.Surah, req.Ayat)
	if err != nil {
		writeError(w, err, "Failed to toggle verse bookmark")
		return
	}
	response.Success(w, ToggleResponse{IsSaved: saved}, "successfully")
}

// RemoveVerseBookmarkHandler deletes the entry at the zero-based {index}
// of the unfiltered GET /bookmarks/verses list.
func (h *ReaderHandler) RemoveVerseBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}
	index, ok := intParam(r, "index")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid index", chi.URLParam(r, "index"))
		return
	}

	if err := h.service.RemoveVerseBookmark(r.Context(), userID, index); err != nil {
		writeError(w, err, "Failed to remove verse bookmark")
		return
	}
	response.Success(w, "Ok", "successfully")
}
