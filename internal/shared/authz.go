package shared

import (
	"net/http"

	"github.com/plastline/plastline-ops/internal/platform/httpx"
)

// RequireUser guards server-rendered pages. Anonymous requests are redirected
// to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUserID(r.Context()) == "" {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUserAPI guards JSON endpoints. Anonymous requests get a 401 envelope.
func RequireUserAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUserID(r.Context()) == "" {
			httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
