package production

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plastline/plastline-ops/internal/masterdata"
	"github.com/plastline/plastline-ops/internal/platform/httpx"
	"github.com/plastline/plastline-ops/internal/shared"
	"github.com/plastline/plastline-ops/internal/view"
)

// Handler wires HTTP endpoints for the production module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	reference *masterdata.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs the production handler.
func NewHandler(logger *slog.Logger, service *Service, reference *masterdata.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, reference: reference, templates: templates, csrf: csrf}
}

// MountPages registers the server-rendered production routes.
func (h *Handler) MountPages(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireUser)
		r.Get("/production-runs", h.showRunForm)
	})
}

// MountAPI registers the JSON endpoints.
func (h *Handler) MountAPI(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireUserAPI)
		r.Post("/production-runs", h.handleCreate)
	})
}

type runPageData struct {
	Reference masterdata.ReferenceData
	Recent    []RunSummary
}

func (h *Handler) showRunForm(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)

	data := runPageData{Recent: []RunSummary{}}
	ref, err := h.reference.ReferenceData(r.Context())
	if err != nil {
		h.logger.Error("load reference data", slog.Any("error", err))
	} else {
		data.Reference = ref
	}
	recent, err := h.service.Recent(r.Context(), 20)
	if err != nil {
		h.logger.Error("load recent runs", slog.Any("error", err))
	} else {
		data.Recent = recent
	}

	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{Title: "Log Production Run", CSRFToken: csrfToken, Flash: flash, CurrentPath: r.URL.Path, Data: data}
	if err := h.templates.Render(w, "pages/production/runs.html", viewData); err != nil {
		h.logger.Error("render production runs", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input RunInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	actorID := shared.CurrentUserID(r.Context())
	id, err := h.service.Record(r.Context(), actorID, input)
	if err != nil {
		if IsValidationError(err) {
			httpx.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create production run", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create production run")
		return
	}

	httpx.OK(w, http.StatusCreated, map[string]string{"id": id})
}
