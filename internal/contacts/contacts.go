package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/models"
)

var (
	ErrSelfRequest    = errors.New("cannot send a friend request to yourself")
	ErrReversePending = errors.New("target already sent a pending request")
)

// Service is the contact relationship engine: directed pending edges that
// mature into a pair of verified edges on acceptance.
type Service struct {
	log      *slog.Logger
	edges    EdgeStore
	members  MemberDirectory
	tokens   PushTokenProvider
	notifier Notifier
}

type EdgeStore interface {
	HasEdge(ctx context.Context, from, to int64) (bool, error)
	HasPendingEdge(ctx context.Context, from, to int64) (bool, error)
	InsertEdge(ctx context.Context, from, to int64) error
	AcceptEdge(ctx context.Context, accepter, requester int64) error
	DeleteEdges(ctx context.Context, a, b int64) error
	Friends(ctx context.Context, memberID int64) ([]models.MemberSummary, error)
	OutgoingRequests(ctx context.Context, memberID int64) ([]models.MemberSummary, error)
	IncomingRequests(ctx context.Context, memberID int64) ([]models.MemberSummary, error)
	Candidates(ctx context.Context, memberID int64) ([]models.MemberSummary, error)
}

type MemberDirectory interface {
	MemberByEmail(ctx context.Context, email string) (models.Member, error)
	MemberByID(ctx context.Context, id int64) (models.Member, error)
}

type PushTokenProvider interface {
	PushTokens(ctx context.Context, memberID int64) ([]string, error)
}

type Notifier interface {
	FriendRequest(ctx context.Context, pushTokens []string, fromUsername string)
	FriendAccepted(ctx context.Context, pushTokens []string, byUsername string)
	FriendRemoved(ctx context.Context, pushTokens []string, byEmail string)
}

func New(
	log *slog.Logger,
	edges EdgeStore,
	members MemberDirectory,
	tokens PushTokenProvider,
	notifier Notifier,
) *Service {
	return &Service{
		log:      log,
		edges:    edges,
		members:  members,
		tokens:   tokens,
		notifier: notifier,
	}
}

// SendRequest inserts a directed pending edge toward the member behind
// targetEmail and notifies their devices.
func (s *Service) SendRequest(ctx context.Context, requesterID int64, targetEmail string) error {
	const op = "contacts.SendRequest"

	log := s.log.With(slog.String("op", op))

	target, err := s.members.MemberByEmail(ctx, targetEmail)
	if err != nil {
		return err
	}

	if target.ID == requesterID {
		return ErrSelfRequest
	}

	reversePending, err := s.edges.HasPendingEdge(ctx, target.ID, requesterID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if reversePending {
		return ErrReversePending
	}

	if err := s.edges.InsertEdge(ctx, requesterID, target.ID); err != nil {
		return err
	}

	requester, err := s.members.MemberByID(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.pushTo(ctx, log, target.ID, func(pushTokens []string) {
		s.notifier.FriendRequest(ctx, pushTokens, requester.Username)
	})

	log.Info("friend request sent",
		slog.Int64("from", requesterID),
		slog.Int64("to", target.ID),
	)

	return nil
}

// Accept inserts the reverse edge and verifies both directions. The storage
// layer rolls the whole acceptance back when the expected pending request is
// missing.
func (s *Service) Accept(ctx context.Context, accepterID int64, requesterEmail string) error {
	const op = "contacts.Accept"

	log := s.log.With(slog.String("op", op))

	requester, err := s.members.MemberByEmail(ctx, requesterEmail)
	if err != nil {
		return err
	}

	if err := s.edges.AcceptEdge(ctx, accepterID, requester.ID); err != nil {
		return err
	}

	accepter, err := s.members.MemberByID(ctx, accepterID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.pushTo(ctx, log, requester.ID, func(pushTokens []string) {
		s.notifier.FriendAccepted(ctx, pushTokens, accepter.Username)
	})

	log.Info("friend request accepted",
		slog.Int64("accepter", accepterID),
		slog.Int64("requester", requester.ID),
	)

	return nil
}

// Delete removes both directed edges. Deleting an absent edge is not an
// error.
func (s *Service) Delete(ctx context.Context, actorID int64, otherEmail string) error {
	const op = "contacts.Delete"

	log := s.log.With(slog.String("op", op))

	other, err := s.members.MemberByEmail(ctx, otherEmail)
	if err != nil {
		return err
	}

	if err := s.edges.DeleteEdges(ctx, actorID, other.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	actor, err := s.members.MemberByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.pushTo(ctx, log, other.ID, func(pushTokens []string) {
		s.notifier.FriendRemoved(ctx, pushTokens, actor.Email)
	})

	log.Info("contact deleted", slog.Int64("actor", actorID), slog.Int64("other", other.ID))

	return nil
}

func (s *Service) Friends(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	return s.edges.Friends(ctx, memberID)
}

func (s *Service) Outgoing(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	return s.edges.OutgoingRequests(ctx, memberID)
}

func (s *Service) Incoming(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	return s.edges.IncomingRequests(ctx, memberID)
}

func (s *Service) Candidates(ctx context.Context, memberID int64) ([]models.MemberSummary, error) {
	return s.edges.Candidates(ctx, memberID)
}

// pushTo fetches the member's push tokens and hands them to the notifier.
// Notification delivery is best-effort and never fails the operation.
func (s *Service) pushTo(ctx context.Context, log *slog.Logger, memberID int64, send func([]string)) {
	pushTokens, err := s.tokens.PushTokens(ctx, memberID)
	if err != nil {
		log.Error("failed to load push tokens", sl.Err(err))
		return
	}

	send(pushTokens)
}
