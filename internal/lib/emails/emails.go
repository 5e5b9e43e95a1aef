package emails

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/lib/tokens"
	"messaging_service/internal/models"
)

type Publisher interface {
	SendEmail(ctx context.Context, msg models.EmailMessage) error
}

// SendVerificationLink publishes the registration verification email.
func SendVerificationLink(
	ctx context.Context,
	log *slog.Logger,
	pub Publisher,
	tokenTTL time.Duration,
	tokenSecret string,
	memberID int64,
	publicURL, email string,
) error {
	token, err := tokens.NewEmailToken(memberID, tokens.PurposeEmailVerification, tokenSecret, tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return err
	}

	msg := models.EmailMessage{
		Email:   email,
		Link:    fmt.Sprintf("%s/verify/%s", publicURL, token),
		Subject: "Email Verification",
	}

	if err := pub.SendEmail(ctx, msg); err != nil {
		log.Error("failed to publish verification email", sl.Err(err))

		return err
	}

	return nil
}

// SendPasswordResetLink publishes the forgot-password email.
func SendPasswordResetLink(
	ctx context.Context,
	log *slog.Logger,
	pub Publisher,
	tokenTTL time.Duration,
	tokenSecret string,
	memberID int64,
	publicURL, email string,
) error {
	token, err := tokens.NewEmailToken(memberID, tokens.PurposePasswordReset, tokenSecret, tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return err
	}

	msg := models.EmailMessage{
		Email:   email,
		Link:    fmt.Sprintf("%s/forgot-password/%s", publicURL, token),
		Subject: "Email Password Verification",
	}

	if err := pub.SendEmail(ctx, msg); err != nil {
		log.Error("failed to publish password reset email", sl.Err(err))

		return err
	}

	return nil
}
