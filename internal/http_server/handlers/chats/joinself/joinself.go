package joinself

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

type SelfJoiner interface {
	JoinSelf(ctx context.Context, memberID, chatID int64) error
}

// New adds the caller to the chat in the URL.
func New(log *slog.Logger, svc SelfJoiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chats.joinself.New"

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

		err = svc.JoinSelf(ctx, memberID, chatID)
		if err != nil {
			if errors.Is(err, storage.ErrChatNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Chat ID not found"))

				return
			}
			if errors.Is(err, storage.ErrAlreadyMember) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("user already joined"))

				return
			}

			log.Error("failed to join chat", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("member joined chat", slog.Int64("chatid", chatID), slog.Int64("uid", memberID))

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Chat joined"})
	}
}
