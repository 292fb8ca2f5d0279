package handler

import (
	"errors"
	"net/http"
	"strings"

	"little-lemon/internal/model"
	"little-lemon/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu-related HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// RefreshResponse is returned by POST /api/menu/refresh.
type RefreshResponse struct {
	Count int `json:"count"`
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// Sections handles GET /api/menu requests.
func (h *MenuHandler) Sections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sections, err := h.service.Sections(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sections)
}

// Search handles GET /api/menu/search?q=<text>&category=<c> requests.
// The category parameter may be repeated or comma separated.
func (h *MenuHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	query := r.URL.Query()
	text := query.Get("q")

	var selected []string
	for _, value := range query["category"] {
		for _, category := range strings.Split(value, ",") {
			if category = strings.TrimSpace(category); category != "" {
				selected = append(selected, category)
			}
		}
	}

	sections, err := h.service.Search(r.Context(), text, selected)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sections)
}

// Categories handles GET /api/menu/categories requests.
func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Categories())
}

// Refresh handles POST /api/menu/refresh requests.
func (h *MenuHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	count, err := h.service.Refresh(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{Count: count})
}

// writeServiceError renders a service error as the domain error it maps to.
func (h *MenuHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, domainErr := toDomainError(err)
	writeError(w, r, status, domainErr.Code, domainErr.Message, h.logger)
}

// toDomainError maps service errors onto an HTTP status and a domain error.
// Domain errors returned by the service keep their own code and message.
func toDomainError(err error) (int, *model.DomainError) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return statusForCode(domainErr.Code), domainErr
	}

	switch {
	case errors.Is(err, model.ErrInitialization):
		return http.StatusServiceUnavailable, model.NewDomainError(model.ErrCodeCacheUnavailable, "menu cache is unavailable")
	case errors.Is(err, model.ErrWrite):
		return http.StatusBadGateway, model.NewDomainError(model.ErrCodeRefreshFailed, "menu refresh did not complete")
	default:
		return http.StatusInternalServerError, model.NewDomainError(model.ErrCodeInternalError, "failed to retrieve menu")
	}
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeRefreshFailed:
		return http.StatusBadGateway
	case model.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
