package create

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
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Name string `json:"name" validate:"required"`
}

type Response struct {
	resp.Response
	ChatID int64 `json:"chatid"`
}

type GroupCreator interface {
	CreateGroup(ctx context.Context, ownerID int64, name string) (int64, error)
}

// New creates a named group chat owned by the caller.
func New(log *slog.Logger, validate *validator.Validate, svc GroupCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chats.create.New"

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

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Missing required information"))

			return
		}

		if err := validate.Struct(req); err != nil {
			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Missing required information"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		chatID, err := svc.CreateGroup(ctx, memberID, req.Name)
		if err != nil {
			log.Error("failed to create chat", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("chat created", slog.Int64("chatid", chatID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.Response{Status: resp.StatusOK, Message: "Chat created"},
			ChatID:   chatID,
		})
	}
}
