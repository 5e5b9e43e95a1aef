package add

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/locations"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type LocationAdder interface {
	Add(ctx context.Context, memberID int64, lat, lon string) error
}

// New saves the coordinates in the URL under the caller's account. The
// nickname comes from reverse geocoding.
func New(log *slog.Logger, svc LocationAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.locations.add.New"

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

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		err := svc.Add(ctx, memberID, lat, lon)
		if err != nil {
			if errors.Is(err, locations.ErrInvalidCoordinates) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Invalid latitude or longitude"))

				return
			}
			if errors.Is(err, storage.ErrDuplicateLocation) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Location already saved"))

				return
			}

			log.Error("failed to save location", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("location saved", slog.Int64("uid", memberID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, resp.Response{Status: resp.StatusOK, Message: "Location saved"})
	}
}
