package journals

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/folio-erp/folio-erp/internal/platform/httpx"
	"github.com/folio-erp/folio-erp/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/manual", h.CreateManual)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	entries, err := h.service.List(r.Context(), identity.CompanyID)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, entries)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	entry, err := h.service.Get(r.Context(), identity.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, entry)
}

type manualLineRequest struct {
	AccountCode string          `json:"account_code" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type manualEntryRequest struct {
	Narrative string              `json:"narrative" validate:"required"`
	EntryDate string              `json:"entry_date"`
	Lines     []manualLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) CreateManual(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	var req manualEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var entryDate time.Time
	if req.EntryDate != "" {
		var err error
		entryDate, err = time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "entry_date must be YYYY-MM-DD")
			return
		}
	}
	input := ManualEntryInput{
		Narrative: req.Narrative,
		EntryDate: entryDate,
		PostedBy:  identity.UserID,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, PostingLineInput{
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}
	doc, entry, err := h.service.CreateManual(r.Context(), identity.CompanyID, input)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, map[string]any{
		"document": doc,
		"entry":    entry,
	})
}
