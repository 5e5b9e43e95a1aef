package members

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
	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Members []models.MemberSummary `json:"members"`
}

type MemberLister interface {
	Members(ctx context.Context, chatID int64) ([]models.MemberSummary, error)
}

// New lists the members of the chat in the URL.
func New(log *slog.Logger, svc MemberLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chats.members.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if _, ok := authjwt.MemberID(r.Context()); !ok {
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

		memberList, err := svc.Members(ctx, chatID)
		if err != nil {
			if errors.Is(err, storage.ErrChatNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Chat ID not found"))

				return
			}

			log.Error("failed to list chat members", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if memberList == nil {
			memberList = []models.MemberSummary{}
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Members:  memberList,
		})
	}
}
