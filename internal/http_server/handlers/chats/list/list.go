package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Chats []models.ChatSummary `json:"chats"`
}

type ChatLister interface {
	ChatsFor(ctx context.Context, memberID int64) ([]models.ChatSummary, error)
}

// New lists every chat the caller belongs to, with the owner's email.
func New(log *slog.Logger, svc ChatLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chats.list.New"

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

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		chatList, err := svc.ChatsFor(ctx, memberID)
		if err != nil {
			log.Error("failed to list chats", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if chatList == nil {
			chatList = []models.ChatSummary{}
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Chats:    chatList,
		})
	}
}
