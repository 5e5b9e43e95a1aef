package accept

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

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required,email"`
}

type RequestAccepter interface {
	Accept(ctx context.Context, accepterID int64, requesterEmail string) error
}

// New accepts a pending friend request from the member behind the email in
// the body. Both directed edges become verified together or not at all.
func New(log *slog.Logger, validate *validator.Validate, svc RequestAccepter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.accept.New"

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

		err = svc.Accept(ctx, memberID, req.Email)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}
			if errors.Is(err, storage.ErrRequestNotFound) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Friend request not found"))

				return
			}
			if errors.Is(err, storage.ErrContactExists) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Contact already exists"))

				return
			}

			log.Error("failed to accept friend request", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("friend request accepted", slog.Int64("uid", memberID))

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Friend request accepted"})
	}
}
