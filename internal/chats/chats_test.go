package chats

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const systemEmail = "system@messaging.local"

type memberKey struct{ chatID, memberID int64 }

type fakeChatStore struct {
	nextID  int64
	chats   map[int64]models.Chat
	members map[memberKey]bool
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		nextID:  1,
		chats:   map[int64]models.Chat{},
		members: map[memberKey]bool{},
	}
}

const systemID int64 = 99

func (f *fakeChatStore) CreateGroupChat(_ context.Context, name string, ownerID int64, _, _ string) (int64, error) {
	id := f.nextID
	f.nextID++

	f.chats[id] = models.Chat{ID: id, Name: name, OwnerID: ownerID, IsGroup: true}
	f.members[memberKey{id, ownerID}] = true
	f.members[memberKey{id, systemID}] = true

	return id, nil
}

func (f *fakeChatStore) ChatByID(_ context.Context, chatID int64) (models.Chat, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return models.Chat{}, storage.ErrChatNotFound
	}
	return chat, nil
}

func (f *fakeChatStore) IsChatMember(_ context.Context, chatID, memberID int64) (bool, error) {
	return f.members[memberKey{chatID, memberID}], nil
}

func (f *fakeChatStore) AddChatMember(_ context.Context, chatID, memberID int64) error {
	key := memberKey{chatID, memberID}
	if f.members[key] {
		return storage.ErrAlreadyMember
	}
	f.members[key] = true
	return nil
}

func (f *fakeChatStore) RemoveChatMember(_ context.Context, chatID, memberID int64) error {
	key := memberKey{chatID, memberID}
	if !f.members[key] {
		return storage.ErrNotMember
	}
	delete(f.members, key)
	return nil
}

func (f *fakeChatStore) DeleteChat(_ context.Context, chatID int64) error {
	if _, ok := f.chats[chatID]; !ok {
		return storage.ErrChatNotFound
	}
	delete(f.chats, chatID)
	for key := range f.members {
		if key.chatID == chatID {
			delete(f.members, key)
		}
	}
	return nil
}

func (f *fakeChatStore) PrivateChatID(_ context.Context, a, b int64) (int64, error) {
	for id, chat := range f.chats {
		if !chat.IsGroup && f.members[memberKey{id, a}] && f.members[memberKey{id, b}] {
			return id, nil
		}
	}
	return 0, storage.ErrChatNotFound
}

func (f *fakeChatStore) CreatePrivateChat(_ context.Context, a, b int64, _, _ string) (int64, error) {
	id := f.nextID
	f.nextID++

	f.chats[id] = models.Chat{ID: id, Name: "PRIVATE", IsGroup: false}
	f.members[memberKey{id, a}] = true
	f.members[memberKey{id, b}] = true
	f.members[memberKey{id, systemID}] = true

	return id, nil
}

func (f *fakeChatStore) ChatsForMember(_ context.Context, memberID int64) ([]models.ChatSummary, error) {
	var out []models.ChatSummary
	for id, chat := range f.chats {
		if f.members[memberKey{id, memberID}] {
			out = append(out, models.ChatSummary{Name: chat.Name, ChatID: id})
		}
	}
	return out, nil
}

func (f *fakeChatStore) ChatMembers(_ context.Context, chatID int64) ([]models.MemberSummary, error) {
	var out []models.MemberSummary
	for key := range f.members {
		if key.chatID == chatID {
			out = append(out, models.MemberSummary{Email: emailFor(key.memberID)})
		}
	}
	return out, nil
}

func emailFor(id int64) string {
	if id == systemID {
		return systemEmail
	}
	return map[int64]string{1: "a@test.com", 2: "b@test.com", 3: "c@test.com"}[id]
}

type fakeDirectory struct{}

func (fakeDirectory) MemberByEmail(_ context.Context, email string) (models.Member, error) {
	for id := int64(1); id <= 3; id++ {
		if emailFor(id) == email {
			return models.Member{ID: id, Email: email, Username: email}, nil
		}
	}
	if email == systemEmail {
		return models.Member{ID: systemID, Email: email}, nil
	}
	return models.Member{}, storage.ErrMemberNotFound
}

func (fakeDirectory) MemberByID(_ context.Context, id int64) (models.Member, error) {
	email := emailFor(id)
	if email == "" {
		return models.Member{}, storage.ErrMemberNotFound
	}
	return models.Member{ID: id, Email: email, Username: email}, nil
}

type fakeTokens struct{}

func (fakeTokens) PushTokens(_ context.Context, _ int64) ([]string, error) {
	return nil, nil
}

type nopNotifier struct{}

func (nopNotifier) AddedToChat(_ context.Context, _ []string, _ string)     {}
func (nopNotifier) RemovedFromChat(_ context.Context, _ []string, _ string) {}

func newTestService(store *fakeChatStore) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, store, fakeDirectory{}, fakeTokens{}, nopNotifier{}, systemEmail)
}

func TestCreateGroupJoinsOwnerAndSystem(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestService(store)

	chatID, err := svc.CreateGroup(context.Background(), 1, "book club")
	require.NoError(t, err)

	memberList, err := svc.Members(context.Background(), chatID)
	require.NoError(t, err)
	assert.Len(t, memberList, 2)
}

func TestJoinSelf(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestService(store)

	chatID, err := svc.CreateGroup(context.Background(), 1, "book club")
	require.NoError(t, err)

	require.NoError(t, svc.JoinSelf(context.Background(), 2, chatID))

	err = svc.JoinSelf(context.Background(), 2, chatID)
	assert.ErrorIs(t, err, storage.ErrAlreadyMember)
}

func TestJoinSelfUnknownChat(t *testing.T) {
	svc := newTestService(newFakeChatStore())

	err := svc.JoinSelf(context.Background(), 1, 404)
	assert.ErrorIs(t, err, storage.ErrChatNotFound)
}

func TestAddMemberRequiresMembership(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestService(store)

	chatID, err := svc.CreateGroup(context.Background(), 1, "book club")
	require.NoError(t, err)

	// Member 2 is not in the chat and may not add anyone.
	err = svc.AddMember(context.Background(), 2, chatID, "c@test.com")
	assert.ErrorIs(t, err, ErrNoAccess)

	require.NoError(t, svc.AddMember(context.Background(), 1, chatID, "c@test.com"))

	err = svc.AddMember(context.Background(), 1, chatID, "c@test.com")
	assert.ErrorIs(t, err, storage.ErrAlreadyMember)
}

func TestRemoveMember(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestService(store)

	chatID, err := svc.CreateGroup(context.Background(), 1, "book club")
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(context.Background(), 1, chatID, "b@test.com"))

	require.NoError(t, svc.RemoveMember(context.Background(), 1, chatID, "b@test.com"))

	err = svc.RemoveMember(context.Background(), 1, chatID, "b@test.com")
	assert.ErrorIs(t, err, storage.ErrNotMember)
}

func TestDeleteOnlyByOwner(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestService(store)

	chatID, err := svc.CreateGroup(context.Background(), 1, "book club")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), 2, chatID)
	assert.ErrorIs(t, err, storage.ErrNotOwner)

	require.NoError(t, svc.Delete(context.Background(), 1, chatID))

	err = svc.Delete(context.Background(), 1, chatID)
	assert.ErrorIs(t, err, storage.ErrChatNotFound)
}

func TestPrivateChatCreatedOnce(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestService(store)

	chatID, created, err := svc.PrivateChat(context.Background(), 1, "b@test.com")
	require.NoError(t, err)
	assert.True(t, created)

	// Same pair from the other side resolves to the same chat.
	again, created, err := svc.PrivateChat(context.Background(), 2, "a@test.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, chatID, again)
}

func TestPrivateChatDistinctPairs(t *testing.T) {
	store := newFakeChatStore()
	svc := newTestService(store)

	first, _, err := svc.PrivateChat(context.Background(), 1, "b@test.com")
	require.NoError(t, err)

	second, created, err := svc.PrivateChat(context.Background(), 1, "c@test.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first, second)
}

func TestPrivateChatUnknownMember(t *testing.T) {
	svc := newTestService(newFakeChatStore())

	_, _, err := svc.PrivateChat(context.Background(), 1, "nobody@test.com")
	assert.ErrorIs(t, err, storage.ErrMemberNotFound)
}

func TestMembersUnknownChat(t *testing.T) {
	svc := newTestService(newFakeChatStore())

	_, err := svc.Members(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrChatNotFound)
}
