package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/folio-erp/folio-erp/internal/platform/httpx"
	"github.com/folio-erp/folio-erp/internal/shared"
)

// Middleware verifies the Bearer token and stores the identity in the
// request context. Handlers behind it can rely on IdentityFromContext.
func Middleware(logger *slog.Logger, tokens *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				httpx.RespondError(w, logger, shared.ErrTokenInvalid)
				return
			}
			identity, err := tokens.Verify(raw)
			if err != nil {
				httpx.RespondError(w, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
		})
	}
}
