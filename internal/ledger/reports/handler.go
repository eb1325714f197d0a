package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/folio-erp/folio-erp/internal/platform/httpx"
	"github.com/folio-erp/folio-erp/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/balances", h.Balances)
	r.Get("/ledger", h.GroupedLedger)
}

func (h *Handler) period(r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	start, end, ok := h.period(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD")
		return
	}
	balances, err := h.service.Balances(r.Context(), identity.CompanyID, start, end)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if balances == nil {
		balances = []AccountBalance{}
	}
	httpx.Respond(w, http.StatusOK, balances)
}

func (h *Handler) GroupedLedger(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	start, end, ok := h.period(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD")
		return
	}
	ledger, err := h.service.GroupedLedger(r.Context(), identity.CompanyID, start, end)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, ledger)
}
