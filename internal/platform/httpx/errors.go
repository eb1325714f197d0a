package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/folio-erp/folio-erp/internal/shared"
)

// RespondError maps a tagged domain error onto the HTTP envelope. The switch
// is exhaustive over shared.Kind; anything untagged is an infrastructure
// failure and is reported generically with full detail kept server-side.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var domainErr *shared.Error
	if !errors.As(err, &domainErr) {
		if logger != nil {
			logger.Error("unhandled error", slog.Any("error", err))
		}
		Fail(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch domainErr.Kind {
	case shared.KindValidation:
		Fail(w, http.StatusBadRequest, domainErr.Msg)
	case shared.KindNotFound:
		Fail(w, http.StatusNotFound, domainErr.Msg)
	case shared.KindConflict:
		Fail(w, http.StatusConflict, domainErr.Msg)
	case shared.KindUnauthorized:
		Fail(w, http.StatusUnauthorized, domainErr.Msg)
	case shared.KindForbidden:
		Fail(w, http.StatusForbidden, domainErr.Msg)
	case shared.KindCritical:
		// Integrity violation: never downgraded, full message surfaced.
		if logger != nil {
			logger.Error("integrity violation", slog.String("detail", domainErr.Msg))
		}
		Fail(w, http.StatusInternalServerError, domainErr.Msg)
	default:
		if logger != nil {
			logger.Error("internal error", slog.Any("error", err))
		}
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
