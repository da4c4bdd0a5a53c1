package sprinthandler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"paysuite/internal/domain/auth"
	"paysuite/internal/domain/sprint"
	"paysuite/internal/transport/http/api"
	"paysuite/internal/transport/http/middleware"
	"paysuite/internal/transport/http/shared"
)

const defaultCount = 12

type Handler struct {
	Anchor time.Time
	Perms  middleware.PermissionStore
	Now    func() time.Time
}

func NewHandler(anchor time.Time, perms middleware.PermissionStore) *Handler {
	return &Handler{Anchor: anchor, Perms: perms, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sprints", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermSprintsRead, h.Perms))
		r.Get("/", h.handleList)
		r.Get("/current", h.handleCurrent)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	validator := shared.NewValidator()
	anchor := h.anchor(r, validator)
	count := defaultCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			validator.Add("count", "must be a non-negative integer")
		} else {
			count = parsed
		}
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	api.Success(w, sprint.Generate(anchor, count), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	validator := shared.NewValidator()
	anchor := h.anchor(r, validator)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	window, err := sprint.Current(anchor, h.Now())
	if errors.Is(err, sprint.ErrBeforeAnchor) {
		api.Fail(w, http.StatusNotFound, "no_current_sprint", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, window, middleware.GetRequestID(r.Context()))
}

func (h *Handler) anchor(r *http.Request, validator *shared.Validator) time.Time {
	raw := r.URL.Query().Get("anchor")
	if raw == "" {
		return h.Anchor
	}
	anchor, err := sprint.ParseAnchor(raw)
	if err != nil {
		validator.Add("anchor", "must be a valid date in YYYY-MM-DD format")
		return time.Time{}
	}
	return anchor
}
