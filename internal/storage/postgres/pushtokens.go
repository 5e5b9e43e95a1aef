package postgres

import (
	"context"
	"fmt"
)

func (r *PostgresRepo) PushTokens(ctx context.Context, memberID int64) ([]string, error) {
	const op = "storage.postgres.PushTokens"

	rows, err := r.pool.Query(ctx, `SELECT token FROM push_token WHERE memberid = $1`, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tokens := []string{}

	for rows.Next() {
		var token string

		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		tokens = append(tokens, token)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return tokens, nil
}

// SavePushToken replaces whatever token the member had registered before.
func (r *PostgresRepo) SavePushToken(ctx context.Context, memberID int64, token string) error {
	const op = "storage.postgres.SavePushToken"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM push_token WHERE memberid = $1`, memberID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO push_token (memberid, token) VALUES ($1, $2)`, memberID, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) DeletePushTokens(ctx context.Context, memberID int64) error {
	const op = "storage.postgres.DeletePushTokens"

	if _, err := r.pool.Exec(ctx, `DELETE FROM push_token WHERE memberid = $1`, memberID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
