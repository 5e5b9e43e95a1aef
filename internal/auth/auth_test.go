package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"messaging_service/internal/lib/tokens"
	"messaging_service/internal/models"
	"messaging_service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeStore struct {
	nextID  int64
	members map[int64]*models.Member
	creds   map[int64]*models.Credential
	byEmail map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:  1,
		members: map[int64]*models.Member{},
		creds:   map[int64]*models.Credential{},
		byEmail: map[string]int64{},
	}
}

func (f *fakeStore) SaveMember(_ context.Context, first, last, username, email, saltedHash, salt string) (int64, error) {
	if _, ok := f.byEmail[email]; ok {
		return 0, storage.ErrEmailTaken
	}
	for _, m := range f.members {
		if m.Username == username {
			return 0, storage.ErrUsernameTaken
		}
	}

	id := f.nextID
	f.nextID++

	f.members[id] = &models.Member{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Username:  username,
		Email:     email,
	}
	f.creds[id] = &models.Credential{MemberID: id, SaltedHash: saltedHash, Salt: salt}
	f.byEmail[email] = id

	return id, nil
}

func (f *fakeStore) UpdateCredential(_ context.Context, memberID int64, saltedHash, salt string) error {
	cred, ok := f.creds[memberID]
	if !ok {
		return storage.ErrCredentialNotFound
	}
	cred.SaltedHash = saltedHash
	cred.Salt = salt
	return nil
}

func (f *fakeStore) SetVerified(_ context.Context, memberID int64) error {
	m, ok := f.members[memberID]
	if !ok {
		return storage.ErrMemberNotFound
	}
	m.IsVerified = true
	return nil
}

func (f *fakeStore) SetResetFlag(_ context.Context, memberID int64, set bool) error {
	m, ok := f.members[memberID]
	if !ok {
		return storage.ErrMemberNotFound
	}
	m.ResetFlagSet = set
	return nil
}

func (f *fakeStore) DeleteMember(_ context.Context, memberID int64) error {
	m, ok := f.members[memberID]
	if !ok {
		return storage.ErrMemberNotFound
	}
	delete(f.byEmail, m.Email)
	delete(f.members, memberID)
	delete(f.creds, memberID)
	return nil
}

func (f *fakeStore) MemberByEmail(_ context.Context, email string) (models.Member, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return models.Member{}, storage.ErrMemberNotFound
	}
	return *f.members[id], nil
}

func (f *fakeStore) MemberByID(_ context.Context, id int64) (models.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return models.Member{}, storage.ErrMemberNotFound
	}
	return *m, nil
}

func (f *fakeStore) Credential(_ context.Context, memberID int64) (models.Credential, error) {
	cred, ok := f.creds[memberID]
	if !ok {
		return models.Credential{}, storage.ErrCredentialNotFound
	}
	return *cred, nil
}

func newTestAccounts(store *fakeStore) *Accounts {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, store, store, testSecret, 14*24*time.Hour)
}

func registerVerified(t *testing.T, accounts *Accounts, store *fakeStore, email, password string) int64 {
	t.Helper()

	id, err := accounts.Register(context.Background(), "Test", "User", email, email, password)
	require.NoError(t, err)
	require.NoError(t, store.SetVerified(context.Background(), id))

	return id
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	id := registerVerified(t, accounts, store, "a@test.com", "Passw0rd!")

	token, err := accounts.Login(context.Background(), "a@test.com", "Passw0rd!")
	require.NoError(t, err)

	memberID, err := tokens.ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, memberID)
}

func TestLoginUnverified(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	_, err := accounts.Register(context.Background(), "Test", "User", "a@test.com", "a@test.com", "Passw0rd!")
	require.NoError(t, err)

	_, err = accounts.Login(context.Background(), "a@test.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	registerVerified(t, accounts, store, "a@test.com", "Passw0rd!")

	_, err := accounts.Login(context.Background(), "a@test.com", "Wr0ng-pass!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownMember(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	_, err := accounts.Login(context.Background(), "nobody@test.com", "Passw0rd!")
	assert.ErrorIs(t, err, storage.ErrMemberNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	_, err := accounts.Register(context.Background(), "Test", "User", "user1", "a@test.com", "Passw0rd!")
	require.NoError(t, err)

	_, err = accounts.Register(context.Background(), "Test", "User", "user2", "a@test.com", "Passw0rd!")
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestVerifyEmail(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	id, err := accounts.Register(context.Background(), "Test", "User", "a@test.com", "a@test.com", "Passw0rd!")
	require.NoError(t, err)

	token, err := tokens.NewEmailToken(id, tokens.PurposeEmailVerification, testSecret, time.Minute)
	require.NoError(t, err)

	require.NoError(t, accounts.VerifyEmail(context.Background(), token))
	assert.True(t, store.members[id].IsVerified)
}

func TestVerifyEmailRejectsResetToken(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	id, err := accounts.Register(context.Background(), "Test", "User", "a@test.com", "a@test.com", "Passw0rd!")
	require.NoError(t, err)

	token, err := tokens.NewEmailToken(id, tokens.PurposePasswordReset, testSecret, time.Minute)
	require.NoError(t, err)

	err = accounts.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordFlow(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	id := registerVerified(t, accounts, store, "a@test.com", "Passw0rd!")

	// New password is rejected until the emailed link was followed.
	err := accounts.ResetPassword(context.Background(), "a@test.com", "N3wpass!")
	assert.ErrorIs(t, err, ErrResetNotConfirmed)

	token, err := tokens.NewEmailToken(id, tokens.PurposePasswordReset, testSecret, time.Minute)
	require.NoError(t, err)
	require.NoError(t, accounts.ConfirmReset(context.Background(), token))
	assert.True(t, store.members[id].ResetFlagSet)

	require.NoError(t, accounts.ResetPassword(context.Background(), "a@test.com", "N3wpass!"))
	assert.False(t, store.members[id].ResetFlagSet)

	_, err = accounts.Login(context.Background(), "a@test.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = accounts.Login(context.Background(), "a@test.com", "N3wpass!")
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	id := registerVerified(t, accounts, store, "a@test.com", "Passw0rd!")

	err := accounts.ChangePassword(context.Background(), id, "Wr0ng-pass!", "N3wpass!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, accounts.ChangePassword(context.Background(), id, "Passw0rd!", "N3wpass!"))

	_, err = accounts.Login(context.Background(), "a@test.com", "N3wpass!")
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	store := newFakeStore()
	accounts := newTestAccounts(store)

	id := registerVerified(t, accounts, store, "a@test.com", "Passw0rd!")

	require.NoError(t, accounts.DeleteAccount(context.Background(), id))

	_, err := accounts.Member(context.Background(), "a@test.com")
	assert.ErrorIs(t, err, storage.ErrMemberNotFound)
}
