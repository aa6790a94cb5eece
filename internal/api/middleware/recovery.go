package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/partyarcade/internal/api/apierr"
	"github.com/mcoot/partyarcade/internal/middleware"
)

// Recovery returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
