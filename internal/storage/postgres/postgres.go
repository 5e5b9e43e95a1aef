package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messaging_service/internal/config"
	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	dsn := dsn(cfg)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

// SaveMember inserts the member and its credential row in one transaction so
// a member can never exist without a credential.
func (r *PostgresRepo) SaveMember(
	ctx context.Context,
	first, last, username, email string,
	saltedHash, salt string,
) (int64, error) {
	const op = "storage.postgres.SaveMember"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var id int64

	err = tx.QueryRow(ctx, `
		INSERT INTO members (firstname, lastname, username, email)
		VALUES ($1, $2, $3, $4)
		RETURNING memberid;
	`, first, last, username, email).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "members_username_key":
				return 0, storage.ErrUsernameTaken
			case "members_email_key":
				return 0, storage.ErrEmailTaken
			}
		}

		return 0, fmt.Errorf("%s: failed to save member: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO credentials (memberid, saltedhash, salt)
		VALUES ($1, $2, $3);
	`, id, saltedHash, salt)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save credential: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) MemberByEmail(ctx context.Context, email string) (models.Member, error) {
	query := `
		SELECT memberid, firstname, lastname, username, email, verification, forgotpassverification
		FROM members
		WHERE UPPER(email) = UPPER($1);
	`

	return r.scanMember(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresRepo) MemberByID(ctx context.Context, id int64) (models.Member, error) {
	query := `
		SELECT memberid, firstname, lastname, username, email, verification, forgotpassverification
		FROM members
		WHERE memberid = $1;
	`

	return r.scanMember(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) scanMember(row pgx.Row) (models.Member, error) {
	var (
		m         models.Member
		verified  int
		resetFlag int
	)

	err := row.Scan(
		&m.ID,
		&m.FirstName,
		&m.LastName,
		&m.Username,
		&m.Email,
		&verified,
		&resetFlag,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Member{}, storage.ErrMemberNotFound
		}

		return models.Member{}, err
	}

	m.IsVerified = verified == 1
	m.ResetFlagSet = resetFlag == 1

	return m, nil
}

func (r *PostgresRepo) Credential(ctx context.Context, memberID int64) (models.Credential, error) {
	query := `
		SELECT memberid, saltedhash, salt
		FROM credentials
		WHERE memberid = $1;
	`

	var c models.Credential

	err := r.pool.QueryRow(ctx, query, memberID).Scan(&c.MemberID, &c.SaltedHash, &c.Salt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Credential{}, storage.ErrCredentialNotFound
		}

		return models.Credential{}, err
	}

	return c, nil
}

// UpdateCredential replaces the salt and hash wholesale.
func (r *PostgresRepo) UpdateCredential(ctx context.Context, memberID int64, saltedHash, salt string) error {
	const op = "storage.postgres.UpdateCredential"

	query := `UPDATE credentials SET saltedhash = $1, salt = $2 WHERE memberid = $3`

	tag, err := r.pool.Exec(ctx, query, saltedHash, salt, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrCredentialNotFound
	}

	return nil
}

func (r *PostgresRepo) SetVerified(ctx context.Context, memberID int64) error {
	const op = "storage.postgres.SetVerified"

	tag, err := r.pool.Exec(ctx, `UPDATE members SET verification = 1 WHERE memberid = $1`, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrMemberNotFound
	}

	return nil
}

func (r *PostgresRepo) SetResetFlag(ctx context.Context, memberID int64, set bool) error {
	const op = "storage.postgres.SetResetFlag"

	flag := 0
	if set {
		flag = 1
	}

	tag, err := r.pool.Exec(ctx, `UPDATE members SET forgotpassverification = $1 WHERE memberid = $2`, flag, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrMemberNotFound
	}

	return nil
}

// DeleteMember removes the member and everything hanging off it in one
// transaction: push tokens, locations, messages, memberships, owned chats,
// contact edges in both directions, credential, member row.
func (r *PostgresRepo) DeleteMember(ctx context.Context, memberID int64) error {
	const op = "storage.postgres.DeleteMember"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback(ctx)

	steps := []string{
		`DELETE FROM push_token WHERE memberid = $1`,
		`DELETE FROM locations WHERE memberid = $1`,
		`DELETE FROM messages WHERE memberid = $1`,
		`DELETE FROM chatmembers WHERE memberid = $1`,
		`DELETE FROM chats WHERE owner = $1`,
		`DELETE FROM contacts WHERE memberid_a = $1 OR memberid_b = $1`,
		`DELETE FROM credentials WHERE memberid = $1`,
		`DELETE FROM members WHERE memberid = $1`,
	}

	for _, query := range steps {
		if _, err := tx.Exec(ctx, query, memberID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
