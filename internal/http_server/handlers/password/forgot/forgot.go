package forgot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	"messaging_service/internal/lib/emails"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type MemberGetter interface {
	Member(ctx context.Context, email string) (models.Member, error)
}

// New starts the forgot-password flow: it emails a confirmation link to the
// address in the URL.
func New(
	log *slog.Logger,
	accounts MemberGetter,
	msgSender emails.Publisher,
	emailTokenTTL time.Duration,
	tokenSecret string,
	publicURL string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.password.forgot.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		email := chi.URLParam(r, "email")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		member, err := accounts.Member(ctx, email)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}

			log.Error("failed to get member", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		err = emails.SendPasswordResetLink(
			ctx,
			log,
			msgSender,
			emailTokenTTL,
			tokenSecret,
			member.ID,
			publicURL,
			member.Email,
		)
		if err != nil {
			log.Error("Failed to send password reset email", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("password reset email queued", slog.Int64("uid", member.ID))

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Email sent"})
	}
}
