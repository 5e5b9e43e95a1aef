package remove

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

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type LocationDeleter interface {
	Delete(ctx context.Context, memberID int64, lat, lon string) error
}

// New removes the saved location matching the coordinates in the URL.
func New(log *slog.Logger, svc LocationDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.locations.remove.New"

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

		lat := chi.URLParam(r, "lat")
		lon := chi.URLParam(r, "lon")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := svc.Delete(ctx, memberID, lat, lon)
		if err != nil {
			if errors.Is(err, storage.ErrLocationNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Location not found"))

				return
			}

			log.Error("failed to delete location", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("location deleted", slog.Int64("uid", memberID))

		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Location deleted"})
	}
}
