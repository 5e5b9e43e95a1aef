package postgres

import (
	"context"
	"errors"
	"fmt"

	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

func (r *PostgresRepo) SaveLocation(ctx context.Context, memberID int64, nickname, lat, lon string) error {
	const op = "storage.postgres.SaveLocation"

	query := `INSERT INTO locations (memberid, nickname, lat, long) VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, memberID, nickname, lat, lon); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrDuplicateLocation
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) DeleteLocation(ctx context.Context, memberID int64, lat, lon string) error {
	const op = "storage.postgres.DeleteLocation"

	query := `DELETE FROM locations WHERE memberid = $1 AND lat = $2 AND long = $3`

	tag, err := r.pool.Exec(ctx, query, memberID, lat, lon)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrLocationNotFound
	}

	return nil
}

func (r *PostgresRepo) Locations(ctx context.Context, memberID int64) ([]models.Location, error) {
	const op = "storage.postgres.Locations"

	rows, err := r.pool.Query(ctx, `SELECT nickname, lat, long FROM locations WHERE memberid = $1`, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	locations := []models.Location{}

	for rows.Next() {
		loc := models.Location{MemberID: memberID}

		if err := rows.Scan(&loc.Nickname, &loc.Lat, &loc.Lon); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		locations = append(locations, loc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return locations, nil
}
