package postgres

import (
	"context"
	"errors"
	"fmt"

	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

func (r *PostgresRepo) HasEdge(ctx context.Context, from, to int64) (bool, error) {
	const op = "storage.postgres.HasEdge"

	query := `SELECT EXISTS(SELECT 1 FROM contacts WHERE memberid_a = $1 AND memberid_b = $2)`

	var exists bool

	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *PostgresRepo) HasPendingEdge(ctx context.Context, from, to int64) (bool, error) {
	const op = "storage.postgres.HasPendingEdge"

	query := `SELECT EXISTS(SELECT 1 FROM contacts WHERE memberid_a = $1 AND memberid_b = $2 AND verified = 0)`

	var exists bool

	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// InsertEdge creates one directed pending contact row.
func (r *PostgresRepo) InsertEdge(ctx context.Context, from, to int64) error {
	const op = "storage.postgres.InsertEdge"

	query := `INSERT INTO contacts (memberid_a, memberid_b) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, from, to); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrContactExists
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AcceptEdge inserts the reverse edge and flips both directions to verified
// in one transaction. Fewer than two updated rows means the expected pending
// request is missing and the whole acceptance rolls back.
func (r *PostgresRepo) AcceptEdge(ctx context.Context, accepter, requester int64) error {
	const op = "storage.postgres.AcceptEdge"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO contacts (memberid_a, memberid_b) VALUES ($1, $2)`, accepter, requester)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrContactExists
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE contacts SET verified = 1
		WHERE (memberid_a = $1 AND memberid_b = $2) OR (memberid_a = $2 AND memberid_b = $1)
	`, accepter, requester)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() < 2 {
		return storage.ErrRequestNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

// DeleteEdges removes both directions regardless of which exist.
func (r *PostgresRepo) DeleteEdges(ctx context.Context, a, b int64) error {
	const op = "storage.postgres.DeleteEdges"

	query := `
		DELETE FROM contacts
		WHERE (memberid_a = $1 AND memberid_b = $2) OR (memberid_a = $2 AND memberid_b = $1)
	`

	if _, err := r.pool.Exec(ctx, query, a, b); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) Friends(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	const op = "storage.postgres.Friends"

	query := `
		SELECT members.email, members.username
		FROM contacts
		JOIN members ON members.memberid = contacts.memberid_b
		WHERE contacts.memberid_a = $1 AND contacts.verified = 1
		ORDER BY members.username ASC;
	`

	return r.memberSummaries(ctx, op, query, memberID)
}

func (r *PostgresRepo) OutgoingRequests(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	const op = "storage.postgres.OutgoingRequests"

	query := `
		SELECT members.email, members.username
		FROM contacts
		JOIN members ON members.memberid = contacts.memberid_b
		WHERE contacts.memberid_a = $1 AND contacts.verified = 0
		ORDER BY members.username ASC;
	`

	return r.memberSummaries(ctx, op, query, memberID)
}

func (r *PostgresRepo) IncomingRequests(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	const op = "storage.postgres.IncomingRequests"

	query := `
		SELECT members.email, members.username
		FROM contacts
		JOIN members ON members.memberid = contacts.memberid_a
		WHERE contacts.memberid_b = $1 AND contacts.verified = 0
		ORDER BY members.username ASC;
	`

	return r.memberSummaries(ctx, op, query, memberID)
}

// Candidates lists members the caller could still send a request to:
// everyone except itself, its verified friends, and members it already has an
// incoming pending request from.
func (r *PostgresRepo) Candidates(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	const op = "storage.postgres.Candidates"

	query := `
		SELECT email, username FROM members
		WHERE memberid <> $1
		  AND memberid NOT IN (
			SELECT memberid_b FROM contacts WHERE memberid_a = $1 AND verified = 1
		  )
		  AND memberid NOT IN (
			SELECT memberid_a FROM contacts WHERE memberid_b = $1 AND verified = 0
		  )
		ORDER BY username ASC;
	`

	return r.memberSummaries(ctx, op, query, memberID)
}

func (r *PostgresRepo) memberSummaries(ctx context.Context, op, query string, args ...any) ([]models.MemberSummary, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	summaries := []models.MemberSummary{}

	for rows.Next() {
		var s models.MemberSummary

		if err := rows.Scan(&s.Email, &s.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		summaries = append(summaries, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return summaries, nil
}
