package add

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"messaging_service/internal/contacts"
	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required,email"`
}

type RequestSender interface {
	SendRequest(ctx context.Context, requesterID int64, targetEmail string) error
}

// New sends a friend request to the member behind the email in the body.
func New(log *slog.Logger, validate *validator.Validate, svc RequestSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.add.New"

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
			render.JSON(w, r, resp.Error("Invalid email"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = svc.SendRequest(ctx, memberID, req.Email)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}
			if errors.Is(err, contacts.ErrSelfRequest) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Invalid email"))

				return
			}
			if errors.Is(err, contacts.ErrReversePending) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("This user has already sent you a friend request"))

				return
			}
			if errors.Is(err, storage.ErrContactExists) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Contact already exists"))

				return
			}

			log.Error("failed to send friend request", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("friend request sent", slog.Int64("uid", memberID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Friend request sent"})
	}
}
