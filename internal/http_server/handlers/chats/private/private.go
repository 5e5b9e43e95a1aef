package private

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	ChatID int64 `json:"chatid"`
}

type PrivateChatGetter interface {
	PrivateChat(ctx context.Context, memberID int64, friendEmail string) (int64, bool, error)
}

// New returns the private chat with the member behind the email in the URL,
// creating it on first use. The message reports which of the two happened.
func New(log *slog.Logger, svc PrivateChatGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chats.private.New"

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

		email := chi.URLParam(r, "email")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		chatID, created, err := svc.PrivateChat(ctx, memberID, email)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}

			log.Error("failed to get private chat", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		message := "Private chat did exist"
		if created {
			message = "Private chat did not exist, a new one was created"
		}

		log.Info("private chat resolved", slog.Int64("chatid", chatID), slog.Bool("created", created))

		render.JSON(w, r, Response{
			Response: resp.Response{Status: resp.StatusOK, Message: message},
			ChatID:   chatID,
		})
	}
}
