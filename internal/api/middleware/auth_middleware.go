package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/RoyceAzure/lab/restaurant/internal/util"
	"github.com/RoyceAzure/lab/restaurant/internal/view"
	"github.com/rs/zerolog/log"
)

const permissionDeniedMsg = "You do not have permission to access this page."

// AuthMiddleware 沒有登入身分時導回 /login
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.GetTokenPayloadFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware 需掛在 AuthMiddleware 之後
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := util.GetTokenPayloadFromContext(r.Context())
		if payload == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !payload.IsAdmin {
			log.Warn().
				Str("request_id", util.GetRequestIDFromContext(r.Context())).
				Str("error", apperr.ErrStrMap[apperr.UnauthorizedCode]).
				Uint("user_id", payload.UserID).
				Str("username", payload.Username).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Msg("non-admin user denied")
			view.SetFlash(w, r, constants.FlashWarning, permissionDeniedMsg)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
