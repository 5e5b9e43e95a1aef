package coords

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "messaging_service/internal/lib/api/response"
	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/weather"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Forecaster interface {
	ReverseGeocode(ctx context.Context, lat, lon string) (string, error)
	ForecastAt(ctx context.Context, lat, lon string, city string) (map[string]any, error)
}

// New proxies the forecast for raw coordinates.
func New(log *slog.Logger, client Forecaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.weather.coords.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		lat := chi.URLParam(r, "lat")
		lon := chi.URLParam(r, "lon")

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		city, err := client.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			if errors.Is(err, weather.ErrLocationNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Location not found"))

				return
			}

			log.Error("failed to reverse geocode", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		forecast, err := client.ForecastAt(ctx, lat, lon, city)
		if err != nil {
			log.Error("failed to fetch forecast", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, forecast)
	}
}
