package auth

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
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// MountProtected mounts routes that require a verified identity.
func (h *Handler) MountProtected(r chi.Router) {
	r.Get("/me", h.Me)
}

// MountUsers mounts user administration for the caller's company.
func (h *Handler) MountUsers(r chi.Router) {
	r.Post("/", h.AddUser)
}

type registerRequest struct {
	CompanyName    string `json:"company_name" validate:"required"`
	CompanyTaxID   string `json:"company_tax_id" validate:"required"`
	CompanyAddress string `json:"company_address"`
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name" validate:"required"`
	Password       string `json:"password" validate:"required,min=8"`
}

type addUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   int64  `json:"role_id" validate:"omitempty,oneof=1 2"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	user, pair, err := h.service.Register(r.Context(), RegisterInput{
		CompanyName:    req.CompanyName,
		CompanyTaxID:   req.CompanyTaxID,
		CompanyAddress: req.CompanyAddress,
		Email:          req.Email,
		Name:           req.Name,
		Password:       req.Password,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, map[string]any{"user": user, "token": pair})
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	var req addUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.AddUser(r.Context(), identity, AddUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	user, pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]any{"user": user, "token": pair})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrTokenInvalid)
		return
	}
	httpx.Respond(w, http.StatusOK, identity)
}
