package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/middleware/authjwt"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type AccountDeleter interface {
	DeleteAccount(ctx context.Context, memberID int64) error
}

// New deletes the caller's account and everything attached to it.
func New(log *slog.Logger, accounts AccountDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.remove.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		memberID, ok := authjwt.MemberID(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("Auth token is not supplied"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := accounts.DeleteAccount(ctx, memberID); err != nil {
			log.Error("failed to delete account", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("account deleted", slog.Int64("uid", memberID))

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Account deleted"})
	}
}
