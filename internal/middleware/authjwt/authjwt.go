package authjwt

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/lib/tokens"

	"github.com/go-chi/render"
)

type ctxKey struct{}

// New validates the Authorization bearer token and injects the caller's
// member id into the request context. Stateless: signature and expiry only,
// no revocation list.
func New(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authjwt"

			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Auth token is not supplied"))

				return
			}

			memberID, err := tokens.ParseSessionToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				log.Warn("invalid session token", slog.String("op", op), sl.Err(err))

				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Token is not valid"))

				return
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), ctxKey{}, memberID),
			))
		})
	}
}

// MemberID extracts the authenticated caller from the request context. The
// second return is false on unauthenticated requests, which only happens when
// a route forgot the middleware.
func MemberID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)

	return id, ok
}
