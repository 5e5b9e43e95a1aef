package login

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"messaging_service/internal/auth"
	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/lib/validation"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type MemberAuthenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// New signs a member in from a Basic authorization header and returns the
// session token.
func New(log *slog.Logger, accounts MemberAuthenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Basic ") {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Missing Authorization Header"))

			return
		}

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid Credentials"))

			return
		}

		email, password, found := strings.Cut(string(decoded), ":")
		if !found || !validation.IsValidEmail(email) || !validation.IsValidPassword(password) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid Credentials"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		token, err := accounts.Login(ctx, email, password)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}
			if errors.Is(err, auth.ErrNotVerified) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Account needs to be verified before you can sign in"))

				return
			}
			if errors.Is(err, auth.ErrInvalidCredentials) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Invalid Email or Password"))

				return
			}

			log.Error("failed to login member", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("member logged in")

		ResponseOK(w, r, token)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, token string) {
	render.JSON(w, r, Response{
		Response: resp.Response{Status: resp.StatusOK, Message: "Authentication successful!"},
		Success:  true,
		Token:    token,
	})
}
