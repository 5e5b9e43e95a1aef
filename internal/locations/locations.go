package locations

import (
	"context"
	"errors"
	"log/slog"

	"messaging_service/internal/models"
	"messaging_service/internal/weather"
)

var ErrInvalidCoordinates = errors.New("invalid latitude or longitude")

// Service manages a member's saved locations. The nickname is resolved by
// reverse geocoding at save time.
type Service struct {
	log      *slog.Logger
	store    LocationStore
	geocoder Geocoder
}

type LocationStore interface {
	SaveLocation(ctx context.Context, memberID int64, nickname, lat, lon string) error
	DeleteLocation(ctx context.Context, memberID int64, lat, lon string) error
	Locations(ctx context.Context, memberID int64) ([]models.Location, error)
}

type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon string) (string, error)
}

func New(log *slog.Logger, store LocationStore, geocoder Geocoder) *Service {
	return &Service{
		log:      log,
		store:    store,
		geocoder: geocoder,
	}
}

func (s *Service) Add(ctx context.Context, memberID int64, lat, lon string) error {
	const op = "locations.Add"

	log := s.log.With(slog.String("op", op))

	city, err := s.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		if errors.Is(err, weather.ErrLocationNotFound) {
			return ErrInvalidCoordinates
		}

		return err
	}

	if err := s.store.SaveLocation(ctx, memberID, city, lat, lon); err != nil {
		return err
	}

	log.Info("location saved", slog.Int64("member", memberID), slog.String("city", city))

	return nil
}

func (s *Service) Delete(ctx context.Context, memberID int64, lat, lon string) error {
	return s.store.DeleteLocation(ctx, memberID, lat, lon)
}

func (s *Service) List(ctx context.Context, memberID int64) ([]models.Location, error) {
	return s.store.Locations(ctx, memberID)
}
