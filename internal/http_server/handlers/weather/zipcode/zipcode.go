package zipcode

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
	GeocodeZip(ctx context.Context, zipcode string) (lat, lon float64, city string, err error)
	Forecast(ctx context.Context, lat, lon float64, city string) (map[string]any, error)
}

// New proxies the forecast for a zipcode. The upstream payload is passed
// through with the resolved city added.
func New(log *slog.Logger, client Forecaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.weather.zipcode.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		zip := chi.URLParam(r, "zipcode")

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		lat, lon, city, err := client.GeocodeZip(ctx, zip)
		if err != nil {
			if errors.Is(err, weather.ErrLocationNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Zipcode not found"))

				return
			}

			log.Error("failed to geocode zipcode", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		forecast, err := client.Forecast(ctx, lat, lon, city)
		if err != nil {
			log.Error("failed to fetch forecast", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, forecast)
	}
}
