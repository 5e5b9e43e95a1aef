package chats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "messaging_service/internal/lib/logger"
	"messaging_service/internal/models"
	"messaging_service/internal/storage"
)

var ErrNoAccess = errors.New("no access to this chat")

const (
	groupWelcome   = "Welcome to the chat!"
	privateWelcome = "Welcome to the private chat!"
	privateLabel   = "a private chat"
)

// Service is the chat membership engine: group chats owned by their creator
// and private chats created lazily per member pair.
type Service struct {
	log         *slog.Logger
	store       ChatStore
	members     MemberDirectory
	tokens      PushTokenProvider
	notifier    Notifier
	systemEmail string
}

type ChatStore interface {
	CreateGroupChat(ctx context.Context, name string, ownerID int64, systemEmail, welcome string) (int64, error)
	ChatByID(ctx context.Context, chatID int64) (models.Chat, error)
	IsChatMember(ctx context.Context, chatID, memberID int64) (bool, error)
	AddChatMember(ctx context.Context, chatID, memberID int64) error
	RemoveChatMember(ctx context.Context, chatID, memberID int64) error
	DeleteChat(ctx context.Context, chatID int64) error
	PrivateChatID(ctx context.Context, a, b int64) (int64, error)
	CreatePrivateChat(ctx context.Context, a, b int64, systemEmail, welcome string) (int64, error)
	ChatsForMember(ctx context.Context, memberID int64) ([]models.ChatSummary, error)
	ChatMembers(ctx context.Context, chatID int64) ([]models.MemberSummary, error)
}

type MemberDirectory interface {
	MemberByEmail(ctx context.Context, email string) (models.Member, error)
	MemberByID(ctx context.Context, id int64) (models.Member, error)
}

type PushTokenProvider interface {
	PushTokens(ctx context.Context, memberID int64) ([]string, error)
}

type Notifier interface {
	AddedToChat(ctx context.Context, pushTokens []string, chatName string)
	RemovedFromChat(ctx context.Context, pushTokens []string, chatName string)
}

func New(
	log *slog.Logger,
	store ChatStore,
	members MemberDirectory,
	tokens PushTokenProvider,
	notifier Notifier,
	systemEmail string,
) *Service {
	return &Service{
		log:         log,
		store:       store,
		members:     members,
		tokens:      tokens,
		notifier:    notifier,
		systemEmail: systemEmail,
	}
}

// CreateGroup creates a named group chat owned by ownerID. The owner and the
// system account are joined and the system account posts the welcome message.
func (s *Service) CreateGroup(ctx context.Context, ownerID int64, name string) (int64, error) {
	const op = "chats.CreateGroup"

	log := s.log.With(slog.String("op", op))

	chatID, err := s.store.CreateGroupChat(ctx, name, ownerID, s.systemEmail, groupWelcome)
	if err != nil {
		return 0, err
	}

	log.Info("group chat created", slog.Int64("chatid", chatID), slog.Int64("owner", ownerID))

	return chatID, nil
}

// JoinSelf adds the caller to an existing chat.
func (s *Service) JoinSelf(ctx context.Context, memberID, chatID int64) error {
	if _, err := s.store.ChatByID(ctx, chatID); err != nil {
		return err
	}

	return s.store.AddChatMember(ctx, chatID, memberID)
}

// AddMember adds the member behind targetEmail to the chat. The actor must
// already be a member.
func (s *Service) AddMember(ctx context.Context, actorID, chatID int64, targetEmail string) error {
	const op = "chats.AddMember"

	log := s.log.With(slog.String("op", op))

	chat, err := s.store.ChatByID(ctx, chatID)
	if err != nil {
		return err
	}

	if err := s.requireMembership(ctx, chatID, actorID); err != nil {
		return err
	}

	target, err := s.members.MemberByEmail(ctx, targetEmail)
	if err != nil {
		return err
	}

	if err := s.store.AddChatMember(ctx, chatID, target.ID); err != nil {
		return err
	}

	s.pushTo(ctx, log, target.ID, func(pushTokens []string) {
		s.notifier.AddedToChat(ctx, pushTokens, chat.Name)
	})

	log.Info("member added to chat", slog.Int64("chatid", chatID), slog.Int64("member", target.ID))

	return nil
}

// RemoveMember removes the member behind targetEmail from the chat. The
// actor must be a member; the target must currently be one.
func (s *Service) RemoveMember(ctx context.Context, actorID, chatID int64, targetEmail string) error {
	const op = "chats.RemoveMember"

	log := s.log.With(slog.String("op", op))

	chat, err := s.store.ChatByID(ctx, chatID)
	if err != nil {
		return err
	}

	if err := s.requireMembership(ctx, chatID, actorID); err != nil {
		return err
	}

	target, err := s.members.MemberByEmail(ctx, targetEmail)
	if err != nil {
		return err
	}

	if err := s.store.RemoveChatMember(ctx, chatID, target.ID); err != nil {
		return err
	}

	s.pushTo(ctx, log, target.ID, func(pushTokens []string) {
		s.notifier.RemovedFromChat(ctx, pushTokens, chat.Name)
	})

	log.Info("member removed from chat", slog.Int64("chatid", chatID), slog.Int64("member", target.ID))

	return nil
}

// Delete removes the chat. Only the recorded owner may do so; whether the
// chat is a group chat is deliberately not checked.
func (s *Service) Delete(ctx context.Context, actorID, chatID int64) error {
	const op = "chats.Delete"

	log := s.log.With(slog.String("op", op))

	chat, err := s.store.ChatByID(ctx, chatID)
	if err != nil {
		return err
	}

	if chat.OwnerID != actorID {
		return storage.ErrNotOwner
	}

	if err := s.store.DeleteChat(ctx, chatID); err != nil {
		return err
	}

	log.Info("chat deleted", slog.Int64("chatid", chatID), slog.Int64("owner", actorID))

	return nil
}

// PrivateChat returns the existing two-member non-group chat with the member
// behind friendEmail, creating it on first use. The returned flag reports
// whether a new chat was created.
func (s *Service) PrivateChat(ctx context.Context, memberID int64, friendEmail string) (int64, bool, error) {
	const op = "chats.PrivateChat"

	log := s.log.With(slog.String("op", op))

	friend, err := s.members.MemberByEmail(ctx, friendEmail)
	if err != nil {
		return 0, false, err
	}

	chatID, err := s.store.PrivateChatID(ctx, memberID, friend.ID)
	if err == nil {
		return chatID, false, nil
	}
	if !errors.Is(err, storage.ErrChatNotFound) {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	chatID, err = s.store.CreatePrivateChat(ctx, memberID, friend.ID, s.systemEmail, privateWelcome)
	if err != nil {
		return 0, false, err
	}

	s.pushTo(ctx, log, friend.ID, func(pushTokens []string) {
		s.notifier.AddedToChat(ctx, pushTokens, privateLabel)
	})

	log.Info("private chat created",
		slog.Int64("chatid", chatID),
		slog.Int64("member", memberID),
		slog.Int64("friend", friend.ID),
	)

	return chatID, true, nil
}

func (s *Service) ChatsFor(ctx context.Context, memberID int64) ([]models.ChatSummary, error) {
	return s.store.ChatsForMember(ctx, memberID)
}

func (s *Service) Members(ctx context.Context, chatID int64) ([]models.MemberSummary, error) {
	if _, err := s.store.ChatByID(ctx, chatID); err != nil {
		return nil, err
	}

	return s.store.ChatMembers(ctx, chatID)
}

func (s *Service) requireMembership(ctx context.Context, chatID, memberID int64) error {
	const op = "chats.requireMembership"

	isMember, err := s.store.IsChatMember(ctx, chatID, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !isMember {
		return ErrNoAccess
	}

	return nil
}

// pushTo fetches the member's push tokens and hands them to the notifier.
// Delivery is best-effort and never fails the operation.
func (s *Service) pushTo(ctx context.Context, log *slog.Logger, memberID int64, send func([]string)) {
	pushTokens, err := s.tokens.PushTokens(ctx, memberID)
	if err != nil {
		log.Error("failed to load push tokens", sl.Err(err))
		return
	}

	send(pushTokens)
}
