package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ChatDeleter interface {
	Delete(ctx context.Context, actorID, chatID int64) error
}

// New deletes a chat. Only the recorded owner may do so; messages and
// memberships go with it.
func New(log *slog.Logger, svc ChatDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chats.remove.New"

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

		chatID, err := strconv.ParseInt(chi.URLParam(r, "chatId"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Chat ID not found"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = svc.Delete(ctx, memberID, chatID)
		if err != nil {
			if errors.Is(err, storage.ErrChatNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Chat ID not found"))

				return
			}
			if errors.Is(err, storage.ErrNotOwner) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("You do not own this chat."))

				return
			}

			log.Error("failed to delete chat", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("chat deleted", slog.Int64("chatid", chatID), slog.Int64("uid", memberID))

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Chat deleted"})
	}
}
