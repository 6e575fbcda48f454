package stock

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plastline/plastline-ops/internal/masterdata"
	"github.com/plastline/plastline-ops/internal/platform/httpx"
	"github.com/plastline/plastline-ops/internal/shared"
	"github.com/plastline/plastline-ops/internal/view"
)

// Handler wires HTTP endpoints for the stock module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs the stock handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

// MountPages registers the server-rendered stock routes.
func (h *Handler) MountPages(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireUser)
		r.Get("/inventory", h.showInventory)
		r.Get("/stock", h.showStock)
	})
}

// MountAPI registers the JSON endpoints.
func (h *Handler) MountAPI(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireUserAPI)
		r.Post("/stock-adjust", h.handleAdjust)
	})
}

type typeOption struct {
	Value string
	Label string
}

type inventoryPageData struct {
	Rows        []Row
	Groups      []CategoryGroup
	Grouped     bool
	Alerts      []ReorderAlert
	Type        string
	Query       string
	TypeOptions []typeOption
}

type stockPageData struct {
	Rows        []Row
	Ledger      []LedgerEntry
	Type        string
	Query       string
	TypeOptions []typeOption
}

func (h *Handler) showInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typeParam := q.Get("type")
	search := q.Get("q")

	filter := Filter{Search: search}
	if typeParam != "" {
		filter.Type = masterdata.ProductType(typeParam)
	}

	data := inventoryPageData{
		Type:  typeParam,
		Query: search,
		TypeOptions: []typeOption{
			{Value: "FINISHED_GOOD", Label: "Finished Good"},
			{Value: "RAW_MATERIAL", Label: "Raw Material"},
			{Value: "MASTER_BATCH", Label: "Master Batch"},
		},
	}
	if data.Type == "" {
		data.Type = string(masterdata.ProductTypeFinishedGood)
	}

	rows, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list inventory", slog.Any("error", err))
		rows = []Row{}
	}
	data.Rows = rows

	// Finished goods get the collapsible category view; other types read
	// better as a flat table.
	if data.Type == string(masterdata.ProductTypeFinishedGood) {
		var finished []Row
		for _, row := range rows {
			if row.Type == masterdata.ProductTypeFinishedGood {
				finished = append(finished, row)
			}
		}
		data.Grouped = true
		data.Groups = GroupByCategory(finished)
	}

	data.Alerts = h.service.ReorderAlerts(r.Context())

	h.render(w, r, "pages/stock/inventory.html", "Inventory", data)
}

func (h *Handler) showStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typeParam := q.Get("type")
	search := q.Get("q")

	filter := Filter{Search: search}
	if typeParam != "" && typeParam != "ALL" {
		filter.Type = masterdata.ProductType(typeParam)
	}

	data := stockPageData{
		Type:  typeParam,
		Query: search,
		TypeOptions: []typeOption{
			{Value: "ALL", Label: "All"},
			{Value: "RAW_MATERIAL", Label: "Raw Material"},
			{Value: "FINISHED_GOOD", Label: "Finished Good"},
			{Value: "MASTER_BATCH", Label: "Master Batch"},
			{Value: "REGRIND_MATERIAL", Label: "Regrind Material"},
		},
	}
	if data.Type == "" {
		data.Type = "ALL"
	}

	rows, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list stock", slog.Any("error", err))
		rows = []Row{}
	}
	data.Rows = rows

	ledger, err := h.service.Ledger(r.Context(), 50)
	if err != nil {
		h.logger.Error("list stock ledger", slog.Any("error", err))
		ledger = []LedgerEntry{}
	}
	data.Ledger = ledger

	h.render(w, r, "pages/stock/ledger.html", "Stock", data)
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var input AdjustmentInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	actorID := shared.CurrentUserID(r.Context())
	if err := h.service.Adjust(r.Context(), actorID, input); err != nil {
		if IsValidationError(err) {
			httpx.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("apply stock adjustment", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Adjustment failed")
		return
	}

	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{Title: title, CSRFToken: csrfToken, Flash: flash, CurrentPath: r.URL.Path, Data: data}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render stock page", slog.Any("error", err), slog.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
