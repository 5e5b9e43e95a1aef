package removemember

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"messaging_service/internal/chats"
	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type MemberRemover interface {
	RemoveMember(ctx context.Context, actorID, chatID int64, targetEmail string) error
}

// New removes the member behind the email in the URL from the chat in the
// URL. The caller must be a member of the chat.
func New(log *slog.Logger, svc MemberRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chats.removemember.New"

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

		email := chi.URLParam(r, "email")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = svc.RemoveMember(ctx, memberID, chatID, email)
		if err != nil {
			if errors.Is(err, storage.ErrChatNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Chat ID not found"))

				return
			}
			if errors.Is(err, chats.ErrNoAccess) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("You are not a member of this chat"))

				return
			}
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}
			if errors.Is(err, storage.ErrNotMember) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("User is not a member of this chat"))

				return
			}

			log.Error("failed to remove member from chat", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("member removed from chat", slog.Int64("chatid", chatID))

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Member removed"})
	}
}
