package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folio-erp/folio-erp/internal/auth"
	"github.com/folio-erp/folio-erp/internal/companies"
	"github.com/folio-erp/folio-erp/internal/ledger/accounts"
	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	"github.com/folio-erp/folio-erp/internal/ledger/reports"
	"github.com/folio-erp/folio-erp/internal/ledger/voiding"
	"github.com/folio-erp/folio-erp/internal/platform/httpx"
	"github.com/folio-erp/folio-erp/internal/purchasing/invoices"
	"github.com/folio-erp/folio-erp/internal/purchasing/suppliers"
	"github.com/folio-erp/folio-erp/internal/sales/clients"
	"github.com/folio-erp/folio-erp/internal/sales/quotations"
)

// HealthChecker reports readiness of a backing service.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	Tokens *auth.TokenIssuer

	AuthHandler      *auth.Handler
	CompanyHandler   *companies.Handler
	AccountHandler   *accounts.Handler
	JournalHandler   *journals.Handler
	VoidHandler      *voiding.Handler
	ReportHandler    *reports.Handler
	SupplierHandler  *suppliers.Handler
	InvoiceHandler   *invoices.Handler
	ClientHandler    *clients.Handler
	QuotationHandler *quotations.Handler

	Health []HealthChecker
}

// NewRouter constructs the chi.Router. /auth and /healthz are public; the
// rest of the API sits behind the bearer-token middleware.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		for _, check := range params.Health {
			if check == nil {
				continue
			}
			if err := check.Ping(req.Context()); err != nil {
				params.Logger.Error("health check failed", slog.Any("error", err))
				httpx.Fail(w, http.StatusServiceUnavailable, "dependency unavailable")
				return
			}
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(params.Logger, params.Tokens))

		r.Route("/auth/session", params.AuthHandler.MountProtected)
		r.Route("/users", params.AuthHandler.MountUsers)
		r.Route("/companies", params.CompanyHandler.MountRoutes)
		r.Route("/ledger/accounts", params.AccountHandler.MountRoutes)
		r.Route("/ledger/journals", params.JournalHandler.MountRoutes)
		r.Route("/ledger/documents", params.VoidHandler.MountRoutes)
		r.Route("/ledger/reports", params.ReportHandler.MountRoutes)
		r.Route("/purchasing/suppliers", params.SupplierHandler.MountRoutes)
		r.Route("/purchasing/invoices", params.InvoiceHandler.MountRoutes)
		r.Route("/sales/clients", params.ClientHandler.MountRoutes)
		r.Route("/sales/quotations", params.QuotationHandler.MountRoutes)
	})

	return r
}
