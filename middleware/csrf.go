package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFFieldName is the hidden form field carrying the token.
const CSRFFieldName = "gorilla.csrf.Token"

// CSRF wraps the whole site in token verification for unsafe methods. It runs
// outside gin so csrf.TemplateField can read the token from the request context.
// When secure is false the site is served over plain http, so requests are
// marked plaintext and the TLS-only referer check is skipped.
func CSRF(key []byte, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("CSRF check failed", "method", r.Method, "path", r.URL.Path, "reason", csrf.FailureReason(r))
			http.Error(w, "انتهت صلاحية النموذج، يرجى إعادة المحاولة. (Forbidden - invalid CSRF token)", http.StatusForbidden)
		})),
	)
	return func(next http.Handler) http.Handler {
		mw := protect(next)
		if secure {
			return mw
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mw.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
