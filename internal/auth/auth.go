package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/lib/passwords"
	"messaging_service/internal/lib/tokens"
	"messaging_service/internal/models"
	"messaging_service/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrResetNotConfirmed  = errors.New("password reset not confirmed")
)

type Accounts struct {
	log        *slog.Logger
	saver      MemberSaver
	provider   MemberProvider
	secret     string
	sessionTTL time.Duration
}

type MemberSaver interface {
	SaveMember(ctx context.Context, first, last, username, email, saltedHash, salt string) (int64, error)
	UpdateCredential(ctx context.Context, memberID int64, saltedHash, salt string) error
	SetVerified(ctx context.Context, memberID int64) error
	SetResetFlag(ctx context.Context, memberID int64, set bool) error
	DeleteMember(ctx context.Context, memberID int64) error
}

type MemberProvider interface {
	MemberByEmail(ctx context.Context, email string) (models.Member, error)
	MemberByID(ctx context.Context, id int64) (models.Member, error)
	Credential(ctx context.Context, memberID int64) (models.Credential, error)
}

func New(
	log *slog.Logger,
	saver MemberSaver,
	provider MemberProvider,
	secret string,
	sessionTTL time.Duration,
) *Accounts {
	return &Accounts{
		log:        log,
		saver:      saver,
		provider:   provider,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// Register creates the member and its credential. Uniqueness violations
// surface as storage.ErrUsernameTaken / storage.ErrEmailTaken.
func (a *Accounts) Register(
	ctx context.Context,
	first, last, username, email, password string,
) (int64, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	salt, err := passwords.GenerateSalt()
	if err != nil {
		log.Error("failed to generate salt", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.saver.SaveMember(ctx, first, last, username, email, passwords.Hash(password, salt), salt)
	if err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) || errors.Is(err, storage.ErrEmailTaken) {
			log.Warn("member already exists")
			return 0, err
		}

		log.Error("failed to save member", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("member registered", slog.Int64("uid", id))

	return id, nil
}

// Login checks Basic-auth credentials and issues the 14-day session token.
func (a *Accounts) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	member, err := a.provider.MemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrMemberNotFound) {
			log.Warn("member not found")
			return "", storage.ErrMemberNotFound
		}

		log.Error("failed to get member", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !member.IsVerified {
		return "", ErrNotVerified
	}

	cred, err := a.provider.Credential(ctx, member.ID)
	if err != nil {
		log.Error("failed to get credential", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !passwords.Matches(password, cred.Salt, cred.SaltedHash) {
		log.Info("invalid credentials")
		return "", ErrInvalidCredentials
	}

	token, err := tokens.NewSessionToken(member.ID, member.Email, a.secret, a.sessionTTL)
	if err != nil {
		log.Error("failed to generate session token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("member logged in", slog.Int64("uid", member.ID))

	return token, nil
}

// VerifyEmail flips the verification flag for the member named in the token.
func (a *Accounts) VerifyEmail(ctx context.Context, token string) error {
	const op = "auth.VerifyEmail"

	log := a.log.With(slog.String("op", op))

	memberID, err := tokens.ParseEmailToken(token, tokens.PurposeEmailVerification, a.secret)
	if err != nil {
		log.Warn("invalid verification token", sl.Err(err))
		return ErrInvalidToken
	}

	if err := a.saver.SetVerified(ctx, memberID); err != nil {
		log.Error("failed to set verified", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email verified", slog.Int64("uid", memberID))

	return nil
}

// ConfirmReset flips the forgot-password flag for the member named in the
// emailed token.
func (a *Accounts) ConfirmReset(ctx context.Context, token string) error {
	const op = "auth.ConfirmReset"

	log := a.log.With(slog.String("op", op))

	memberID, err := tokens.ParseEmailToken(token, tokens.PurposePasswordReset, a.secret)
	if err != nil {
		log.Warn("invalid reset token", sl.Err(err))
		return ErrInvalidToken
	}

	if err := a.saver.SetResetFlag(ctx, memberID, true); err != nil {
		log.Error("failed to set reset flag", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password reset confirmed", slog.Int64("uid", memberID))

	return nil
}

// ResetPassword replaces the credential once the emailed link was followed.
func (a *Accounts) ResetPassword(ctx context.Context, email, newPassword string) error {
	const op = "auth.ResetPassword"

	log := a.log.With(slog.String("op", op))

	member, err := a.provider.MemberByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !member.ResetFlagSet {
		return ErrResetNotConfirmed
	}

	if err := a.replaceCredential(ctx, member.ID, newPassword); err != nil {
		log.Error("failed to replace credential", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.saver.SetResetFlag(ctx, member.ID, false); err != nil {
		log.Error("failed to clear reset flag", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password reset", slog.Int64("uid", member.ID))

	return nil
}

// ChangePassword replaces the credential after checking the old password.
func (a *Accounts) ChangePassword(ctx context.Context, memberID int64, oldPassword, newPassword string) error {
	const op = "auth.ChangePassword"

	log := a.log.With(slog.String("op", op))

	cred, err := a.provider.Credential(ctx, memberID)
	if err != nil {
		return err
	}

	if !passwords.Matches(oldPassword, cred.Salt, cred.SaltedHash) {
		return ErrInvalidCredentials
	}

	if err := a.replaceCredential(ctx, memberID, newPassword); err != nil {
		log.Error("failed to replace credential", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password changed", slog.Int64("uid", memberID))

	return nil
}

// DeleteAccount removes the member and everything owned by it.
func (a *Accounts) DeleteAccount(ctx context.Context, memberID int64) error {
	const op = "auth.DeleteAccount"

	log := a.log.With(slog.String("op", op))

	if err := a.saver.DeleteMember(ctx, memberID); err != nil {
		log.Error("failed to delete member", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account deleted", slog.Int64("uid", memberID))

	return nil
}

func (a *Accounts) Member(ctx context.Context, email string) (models.Member, error) {
	return a.provider.MemberByEmail(ctx, email)
}

func (a *Accounts) MemberByID(ctx context.Context, id int64) (models.Member, error) {
	return a.provider.MemberByID(ctx, id)
}

func (a *Accounts) replaceCredential(ctx context.Context, memberID int64, newPassword string) error {
	salt, err := passwords.GenerateSalt()
	if err != nil {
		return err
	}

	return a.saver.UpdateCredential(ctx, memberID, passwords.Hash(newPassword, salt), salt)
}
