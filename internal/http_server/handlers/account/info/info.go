package info

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	First    string `json:"first"`
	Last     string `json:"last"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type MemberByIDGetter interface {
	MemberByID(ctx context.Context, id int64) (models.Member, error)
}

// New returns the caller's profile.
func New(log *slog.Logger, accounts MemberByIDGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.info.New"

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

		member, err := accounts.MemberByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}

			log.Error("failed to get member", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			First:    member.FirstName,
			Last:     member.LastName,
			Username: member.Username,
			Email:    member.Email,
		})
	}
}
