package reset

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"messaging_service/internal/auth"
	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/lib/validation"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required,email"`
	Pass  string `json:"password" validate:"required"`
}

type PasswordResetter interface {
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// New sets a new password at the end of the forgot-password flow. Rejected
// until the member has followed the emailed confirmation link.
func New(log *slog.Logger, validate *validator.Validate, accounts PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.password.reset.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

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

		if !validation.IsValidPassword(req.Pass) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Password does not meet the requirements"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = accounts.ResetPassword(ctx, req.Email, req.Pass)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}
			if errors.Is(err, auth.ErrResetNotConfirmed) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Password reset has not been confirmed"))

				return
			}

			log.Error("failed to reset password", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("password reset")

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Password updated"})
	}
}
