package project

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/api/response"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/sl"
)

const defaultWindowDays = 7

// Core is the slice of the records store the dashboard needs.
type Core interface {
	ListRecentProjects(ctx context.Context, since time.Time) ([]entity.Project, error)
	GetProject(ctx context.Context, uuid string) (*entity.Project, error)
}

// Recent returns intakes completed within the last N days (query param
// "days", default 7), newest first.
func Recent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("records store not available")
			render.JSON(w, r, response.Error("records store not available"))
			return
		}

		days := defaultWindowDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 {
				days = v
			}
		}

		since := time.Now().AddDate(0, 0, -days)
		projects, err := handler.ListRecentProjects(r.Context(), since)
		if err != nil {
			logger.Error("list recent projects", sl.Err(err))
			render.JSON(w, r, response.Error("Lookup failed"))
			return
		}

		render.JSON(w, r, response.Ok(projects))
	}
}

// Get returns one intake by uuid.
func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("records store not available")
			render.JSON(w, r, response.Error("records store not available"))
			return
		}

		uuid := r.URL.Query().Get("uuid")
		if uuid == "" {
			render.JSON(w, r, response.Error("uuid is required"))
			return
		}

		project, err := handler.GetProject(r.Context(), uuid)
		if err != nil {
			logger.Error("get project", sl.Err(err))
			render.JSON(w, r, response.Error("Lookup failed"))
			return
		}
		if project == nil {
			render.Status(r, 404)
			render.JSON(w, r, response.Error("Project not found"))
			return
		}

		render.JSON(w, r, response.Ok(project))
	}
}
