package accounts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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
	r.Get("/{code}", h.GetByCode)
}

type accountRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=ASSET LIABILITY EXPENSE INCOME EQUITY"`
	Level    int    `json:"level" validate:"omitempty,min=1"`
	Postable bool   `json:"postable"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	list, err := h.service.List(r.Context(), identity.CompanyID)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, list)
}

func (h *Handler) GetByCode(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	account, err := h.service.GetByCode(r.Context(), identity.CompanyID, chi.URLParam(r, "code"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, account)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	var req accountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), Account{
		CompanyID: identity.CompanyID,
		Code:      req.Code,
		Name:      req.Name,
		Type:      AccountType(req.Type),
		Level:     req.Level,
		Postable:  req.Postable,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, created)
}
