package middleware

import (
	"context"
	"net/http"
	"strings"

	"portal/internal/session"
)

const sessionKey ctxKey = "session"

// Session resolves a Bearer token to its session state. Requests without a
// valid session pass through unchanged; handlers that need one reject them.
func Session(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			state, ok := sessions.Resolve(token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSession(ctx context.Context) (*session.State, bool) {
	state, ok := ctx.Value(sessionKey).(*session.State)
	return state, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
