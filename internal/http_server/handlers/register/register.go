package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	"messaging_service/internal/lib/emails"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	First    string `json:"first" validate:"required"`
	Last     string `json:"last" validate:"required"`
	Username string `json:"username"`
	Email    string `json:"email" validate:"required,email"`
	Pass     string `json:"password" validate:"required"`
}

type Response struct {
	resp.Response
	Success bool   `json:"success"`
	Email   string `json:"email"`
}

type MemberRegisterer interface {
	Register(ctx context.Context, first, last, username, email, password string) (int64, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	accounts MemberRegisterer,
	msgSender emails.Publisher,
	emailTokenTTL time.Duration,
	tokenSecret string,
	publicURL string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

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

		// Username falls back to the email when omitted.
		username := req.Username
		if username == "" {
			username = req.Email
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		memberID, err := accounts.Register(ctx, req.First, req.Last, username, req.Email, req.Pass)
		if err != nil {
			if errors.Is(err, storage.ErrUsernameTaken) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Username exists"))

				return
			}
			if errors.Is(err, storage.ErrEmailTaken) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Email exists"))

				return
			}

			log.Error("failed to register member", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Member registered", slog.Int64("id", memberID))

		err = emails.SendVerificationLink(
			ctx,
			log,
			msgSender,
			emailTokenTTL,
			tokenSecret,
			memberID,
			publicURL,
			req.Email,
		)
		if err != nil {
			log.Error("Failed to send verification email", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		ResponseOK(w, r, req.Email)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, email string) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response: resp.OK(),
		Success:  true,
		Email:    email,
	})
}
