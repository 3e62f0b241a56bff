package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jordanarrivado/ajs-portfolio/internal/api/response"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/service"
	"github.com/rs/zerolog/log"
)

// ChatLogHandler handles the dashboard endpoints
type ChatLogHandler struct {
	chatLogService *service.ChatLogService
	adminService   *service.AdminService
	loc            *time.Location
}

// NewChatLogHandler creates a new chat log handler. Date-only filters are
// resolved in loc.
func NewChatLogHandler(chatLogService *service.ChatLogService, adminService *service.AdminService, loc *time.Location) *ChatLogHandler {
	return &ChatLogHandler{
		chatLogService: chatLogService,
		adminService:   adminService,
		loc:            loc,
	}
}

// List handles paginated listing of logs
func (h *ChatLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", service.DefaultPage)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.chatLogService.List(r.Context(), domain.ListParams{
		Page:   page,
		Limit:  limit,
		Filter: filter,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	response.Write(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       nonNilLogs(result.Logs),
		"pagination": result.Pagination,
		"filter": map[string]any{
			"personality": nullable(q.Get("personality")),
			"startDate":   nullable(q.Get("startDate")),
			"endDate":     nullable(q.Get("endDate")),
			"userAgent":   nullable(q.Get("userAgent")),
		},
	})
}

// Get handles fetching a single log
func (h *ChatLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.chatLogService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, entry)
}

// Delete handles removing a single log
func (h *ChatLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.adminService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Write(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Chat log deleted successfully",
		"data":    deleted,
	})
}

// Export handles downloading every matching log as a JSON file
func (h *ChatLogHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	export, err := h.adminService.Export(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Attachment(w, export.Filename, nonNilLogs(export.Logs))
}

// Analytics handles the dashboard summary
func (h *ChatLogHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", service.DefaultAnalyticsDays)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	report, err := h.chatLogService.Analytics(r.Context(), days, domain.ChatLogFilter{
		Personality: q.Get("personality"),
		UserAgent:   q.Get("userAgent"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	response.Write(w, http.StatusOK, map[string]any{
		"success":   true,
		"dateRange": report.DateRange,
		"analytics": report.Analytics,
	})
}

func (h *ChatLogHandler) parseFilter(r *http.Request) (domain.ChatLogFilter, error) {
	q := r.URL.Query()
	filter := domain.ChatLogFilter{
		Personality: q.Get("personality"),
		UserAgent:   q.Get("userAgent"),
	}

	if v := q.Get("startDate"); v != "" {
		start, err := domain.ParseDateBound(v, h.loc, false)
		if err != nil {
			return filter, err
		}
		filter.Start = &start
	}
	if v := q.Get("endDate"); v != "" {
		end, err := domain.ParseDateBound(v, h.loc, true)
		if err != nil {
			return filter, err
		}
		filter.End = &end
	}

	return filter, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.NewValidationError("%s must be a positive integer", name)
	}
	return n, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNilLogs(logs []domain.ConversationLog) []domain.ConversationLog {
	if logs == nil {
		return []domain.ConversationLog{}
	}
	return logs
}

// writeError maps domain error kinds to HTTP statuses. Causes are logged,
// only the caller-facing message is returned.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, domain.Message(err))
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, domain.Message(err))
	case errors.Is(err, domain.ErrUnauthorized):
		response.Unauthorized(w, domain.Message(err))
	default:
		log.Error().Err(err).Msg("Request failed")
		var derr *domain.Error
		if errors.As(err, &derr) {
			response.InternalError(w, derr.Msg)
			return
		}
		response.InternalError(w, "Internal server error")
	}
}
