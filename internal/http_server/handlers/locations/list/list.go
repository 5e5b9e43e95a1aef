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
	Locations []models.Location `json:"locations"`
}

type LocationLister interface {
	List(ctx context.Context, memberID int64) ([]models.Location, error)
}

// New lists the caller's saved locations.
func New(log *slog.Logger, svc LocationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.locations.list.New"

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

		locationList, err := svc.List(ctx, memberID)
		if err != nil {
			log.Error("failed to list locations", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if locationList == nil {
			locationList = []models.Location{}
		}

		render.JSON(w, r, Response{
			Response:  resp.OK(),
			Locations: locationList,
		})
	}
}
