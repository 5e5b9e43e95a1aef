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
	Contacts []models.MemberSummary `json:"contacts"`
}

// ListFunc selects which contact slice to return: verified friends, outgoing
// requests, incoming requests or suggestion candidates.
type ListFunc func(ctx context.Context, memberID int64) ([]models.MemberSummary, error)

func New(log *slog.Logger, kind string, list ListFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("kind", kind),
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

		members, err := list(ctx, memberID)
		if err != nil {
			log.Error("failed to list contacts", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if members == nil {
			members = []models.MemberSummary{}
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Contacts: members,
		})
	}
}
