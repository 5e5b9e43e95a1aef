package postgres

import (
	"context"
	"errors"
	"fmt"

	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateGroupChat inserts the chat row, joins the owner and the system
// account, and posts the welcome message, all in one transaction.
func (r *PostgresRepo) CreateGroupChat(
	ctx context.Context,
	name string,
	ownerID int64,
	systemEmail, welcome string,
) (int64, error) {
	const op = "storage.postgres.CreateGroupChat"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var systemID int64

	err = tx.QueryRow(ctx, `SELECT memberid FROM members WHERE UPPER(email) = UPPER($1)`, systemEmail).Scan(&systemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrMemberNotFound
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var chatID int64

	err = tx.QueryRow(ctx, `
		INSERT INTO chats (name, owner, groupchat)
		VALUES ($1, $2, 1)
		RETURNING chatid;
	`, name, ownerID).Scan(&chatID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO chatmembers (chatid, memberid) VALUES ($1, $2), ($1, $3);
	`, chatID, ownerID, systemID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO messages (chatid, message, memberid) VALUES ($1, $2, $3);
	`, chatID, welcome, systemID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return chatID, nil
}

func (r *PostgresRepo) ChatByID(ctx context.Context, chatID int64) (models.Chat, error) {
	query := `SELECT chatid, name, COALESCE(owner, 0), groupchat FROM chats WHERE chatid = $1`

	var (
		c     models.Chat
		group int
	)

	err := r.pool.QueryRow(ctx, query, chatID).Scan(&c.ID, &c.Name, &c.OwnerID, &group)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Chat{}, storage.ErrChatNotFound
		}

		return models.Chat{}, err
	}

	c.IsGroup = group == 1

	return c, nil
}

func (r *PostgresRepo) IsChatMember(ctx context.Context, chatID, memberID int64) (bool, error) {
	const op = "storage.postgres.IsChatMember"

	query := `SELECT EXISTS(SELECT 1 FROM chatmembers WHERE chatid = $1 AND memberid = $2)`

	var exists bool

	if err := r.pool.QueryRow(ctx, query, chatID, memberID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *PostgresRepo) AddChatMember(ctx context.Context, chatID, memberID int64) error {
	const op = "storage.postgres.AddChatMember"

	query := `INSERT INTO chatmembers (chatid, memberid) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, chatID, memberID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrAlreadyMember
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) RemoveChatMember(ctx context.Context, chatID, memberID int64) error {
	const op = "storage.postgres.RemoveChatMember"

	query := `DELETE FROM chatmembers WHERE chatid = $1 AND memberid = $2`

	tag, err := r.pool.Exec(ctx, query, chatID, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotMember
	}

	return nil
}

// DeleteChat removes the chat row; memberships and messages go with it via
// their foreign keys.
func (r *PostgresRepo) DeleteChat(ctx context.Context, chatID int64) error {
	const op = "storage.postgres.DeleteChat"

	tag, err := r.pool.Exec(ctx, `DELETE FROM chats WHERE chatid = $1`, chatID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrChatNotFound
	}

	return nil
}

// PrivateChatID finds the non-group chat both members belong to by
// intersecting their membership sets.
func (r *PostgresRepo) PrivateChatID(ctx context.Context, a, b int64) (int64, error) {
	const op = "storage.postgres.PrivateChatID"

	query := `
		SELECT chats.chatid FROM chats
		JOIN (
			SELECT chatid FROM chatmembers WHERE memberid = $1
			INTERSECT
			SELECT chatid FROM chatmembers WHERE memberid = $2
		) AS i ON chats.chatid = i.chatid
		WHERE chats.groupchat = 0;
	`

	var chatID int64

	err := r.pool.QueryRow(ctx, query, a, b).Scan(&chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrChatNotFound
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return chatID, nil
}

// CreatePrivateChat creates the unnamed two-member chat, joins both members
// plus the system account, and posts the welcome message in one transaction.
func (r *PostgresRepo) CreatePrivateChat(
	ctx context.Context,
	a, b int64,
	systemEmail, welcome string,
) (int64, error) {
	const op = "storage.postgres.CreatePrivateChat"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var systemID int64

	err = tx.QueryRow(ctx, `SELECT memberid FROM members WHERE UPPER(email) = UPPER($1)`, systemEmail).Scan(&systemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrMemberNotFound
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var chatID int64

	err = tx.QueryRow(ctx, `
		INSERT INTO chats (name, groupchat) VALUES ('PRIVATE', 0) RETURNING chatid;
	`).Scan(&chatID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO chatmembers (chatid, memberid) VALUES ($1, $2), ($1, $3), ($1, $4);
	`, chatID, a, b, systemID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO messages (chatid, message, memberid) VALUES ($1, $2, $3);
	`, chatID, welcome, systemID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return chatID, nil
}

func (r *PostgresRepo) ChatsForMember(ctx context.Context, memberID int64) ([]models.ChatSummary, error) {
	const op = "storage.postgres.ChatsForMember"

	query := `
		SELECT chats.name, chats.chatid, members.email AS owner
		FROM chatmembers
		INNER JOIN chats ON chatmembers.chatid = chats.chatid
		INNER JOIN members ON members.memberid = chats.owner
		WHERE chatmembers.memberid = $1;
	`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	chats := []models.ChatSummary{}

	for rows.Next() {
		var c models.ChatSummary

		if err := rows.Scan(&c.Name, &c.ChatID, &c.OwnerEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		chats = append(chats, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return chats, nil
}

func (r *PostgresRepo) ChatMembers(ctx context.Context, chatID int64) ([]models.MemberSummary, error) {
	const op = "storage.postgres.ChatMembers"

	query := `
		SELECT members.email, members.username
		FROM chatmembers
		JOIN members ON members.memberid = chatmembers.memberid
		WHERE chatmembers.chatid = $1;
	`

	return r.memberSummaries(ctx, op, query, chatID)
}
