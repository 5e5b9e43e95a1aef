package confirm

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

type ResetConfirmer interface {
	ConfirmReset(ctx context.Context, token string) error
}

// New handles the emailed forgot-password link. Like the verification link,
// the response is rendered for a browser.
func New(log *slog.Logger, accounts ResetConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.password.confirm.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := chi.URLParam(r, "token")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := accounts.ConfirmReset(ctx, token); err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				log.Warn("invalid reset token", sl.Err(err))

				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Password reset failed, possibly the link is invalid or expired"))

				return
			}

			log.Error("failed to confirm password reset", sl.Err(err))

			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal error"))

			return
		}

		log.Info("password reset confirmed")

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html.ThankYou))
	}
}
