package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"messaging_service/internal/auth"
	"messaging_service/internal/lib/html"
	sl "messaging_service/internal/lib/logger"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

type EmailVerifier interface {
	VerifyEmail(ctx context.Context, token string) error
}

// New handles the emailed verification link. The response is rendered for a
// browser, not an API client.
func New(log *slog.Logger, accounts EmailVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.verify.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := chi.URLParam(r, "token")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := accounts.VerifyEmail(ctx, token); err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				log.Warn("invalid verification token", sl.Err(err))

				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Email verification failed, possibly the link is invalid or expired"))

				return
			}

			log.Error("failed to verify email", sl.Err(err))

			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal error"))

			return
		}

		log.Info("email verified")

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html.ThankYou))
	}
}
