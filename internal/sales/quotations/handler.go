package quotations

import (
	"fmt"
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
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/pdf", h.PDF)
	r.Post("/{id}/send", h.Send)
	r.Post("/{id}/status", h.SetStatus)
}

type lineRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createRequest struct {
	ClientID    int64         `json:"client_id" validate:"required,min=1"`
	IssueDate   string        `json:"issue_date" validate:"required"`
	ValidUntil  string        `json:"valid_until"`
	TaxAffected bool          `json:"tax_affected"`
	Notes       string        `json:"notes"`
	Lines       []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=SENT ACCEPTED REJECTED"`
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	clientID, _ := strconv.ParseInt(r.URL.Query().Get("client_id"), 10, 64)
	list, err := h.service.List(r.Context(), identity.CompanyID, ListFilters{
		ClientID: clientID,
		Status:   Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if list == nil {
		list = []Quotation{}
	}
	httpx.Respond(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid quotation id")
		return
	}
	quotation, err := h.service.Get(r.Context(), identity.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, quotation)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid issue_date, expected YYYY-MM-DD")
		return
	}
	var validUntil time.Time
	if req.ValidUntil != "" {
		if validUntil, err = parseDate(req.ValidUntil); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid valid_until, expected YYYY-MM-DD")
			return
		}
	}
	lines := make([]LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, LineInput{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}
	quotation, err := h.service.Create(r.Context(), identity.CompanyID, CreateInput{
		ClientID:    req.ClientID,
		IssueDate:   issueDate,
		ValidUntil:  validUntil,
		TaxAffected: req.TaxAffected,
		Notes:       req.Notes,
		CreatedBy:   identity.UserID,
		Lines:       lines,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, quotation)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid quotation id")
		return
	}
	pdf, err := h.service.RenderPDF(r.Context(), identity.CompanyID, id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cotizacion-%d.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid quotation id")
		return
	}
	if err := h.service.Send(r.Context(), identity.CompanyID, id, identity.UserID); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]any{"sent": true})
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid quotation id")
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.SetStatus(r.Context(), identity.CompanyID, id, Status(req.Status)); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]any{"status": req.Status})
}
