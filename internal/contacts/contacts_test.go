package contacts

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

type edgeKey struct{ from, to int64 }

type fakeEdges struct {
	edges map[edgeKey]bool // value is the verified flag
}

func newFakeEdges() *fakeEdges {
	return &fakeEdges{edges: map[edgeKey]bool{}}
}

func (f *fakeEdges) HasEdge(_ context.Context, from, to int64) (bool, error) {
	_, ok := f.edges[edgeKey{from, to}]
	return ok, nil
}

func (f *fakeEdges) HasPendingEdge(_ context.Context, from, to int64) (bool, error) {
	verified, ok := f.edges[edgeKey{from, to}]
	return ok && !verified, nil
}

func (f *fakeEdges) InsertEdge(_ context.Context, from, to int64) error {
	key := edgeKey{from, to}
	if _, ok := f.edges[key]; ok {
		return storage.ErrContactExists
	}
	f.edges[key] = false
	return nil
}

func (f *fakeEdges) AcceptEdge(_ context.Context, accepter, requester int64) error {
	if _, ok := f.edges[edgeKey{requester, accepter}]; !ok {
		return storage.ErrRequestNotFound
	}
	f.edges[edgeKey{requester, accepter}] = true
	f.edges[edgeKey{accepter, requester}] = true
	return nil
}

func (f *fakeEdges) DeleteEdges(_ context.Context, a, b int64) error {
	delete(f.edges, edgeKey{a, b})
	delete(f.edges, edgeKey{b, a})
	return nil
}

func (f *fakeEdges) Friends(_ context.Context, memberID int64) ([]models.MemberSummary, error) {
	return f.list(memberID, func(verified bool) bool { return verified })
}

func (f *fakeEdges) OutgoingRequests(_ context.Context, memberID int64) ([]models.MemberSummary, error) {
	return f.list(memberID, func(verified bool) bool { return !verified })
}

func (f *fakeEdges) IncomingRequests(_ context.Context, memberID int64) ([]models.MemberSummary, error) {
	var out []models.MemberSummary
	for key, verified := range f.edges {
		if key.to == memberID && !verified {
			out = append(out, summary(key.from))
		}
	}
	return out, nil
}

func (f *fakeEdges) Candidates(_ context.Context, memberID int64) ([]models.MemberSummary, error) {
	return nil, nil
}

func (f *fakeEdges) list(memberID int64, keep func(verified bool) bool) ([]models.MemberSummary, error) {
	var out []models.MemberSummary
	for key, verified := range f.edges {
		if key.from == memberID && keep(verified) {
			out = append(out, summary(key.to))
		}
	}
	return out, nil
}

func summary(id int64) models.MemberSummary {
	return models.MemberSummary{Email: emailFor(id), Username: emailFor(id)}
}

func emailFor(id int64) string {
	return map[int64]string{1: "a@test.com", 2: "b@test.com", 3: "c@test.com"}[id]
}

type fakeDirectory struct{}

func (fakeDirectory) MemberByEmail(_ context.Context, email string) (models.Member, error) {
	for id := int64(1); id <= 3; id++ {
		if emailFor(id) == email {
			return models.Member{ID: id, Email: email, Username: email}, nil
		}
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

type recordingNotifier struct {
	requests, accepts, removals int
}

func (n *recordingNotifier) FriendRequest(_ context.Context, _ []string, _ string)  { n.requests++ }
func (n *recordingNotifier) FriendAccepted(_ context.Context, _ []string, _ string) { n.accepts++ }
func (n *recordingNotifier) FriendRemoved(_ context.Context, _ []string, _ string)  { n.removals++ }

func newTestService(edges *fakeEdges) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, edges, fakeDirectory{}, fakeTokens{}, &recordingNotifier{})
}

func TestSendRequest(t *testing.T) {
	edges := newFakeEdges()
	svc := newTestService(edges)

	require.NoError(t, svc.SendRequest(context.Background(), 1, "b@test.com"))

	outgoing, err := svc.Outgoing(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "b@test.com", outgoing[0].Email)

	incoming, err := svc.Incoming(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, incoming, 1)

	friends, err := svc.Friends(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestSendRequestToSelf(t *testing.T) {
	svc := newTestService(newFakeEdges())

	err := svc.SendRequest(context.Background(), 1, "a@test.com")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestDuplicate(t *testing.T) {
	edges := newFakeEdges()
	svc := newTestService(edges)

	require.NoError(t, svc.SendRequest(context.Background(), 1, "b@test.com"))

	err := svc.SendRequest(context.Background(), 1, "b@test.com")
	assert.ErrorIs(t, err, storage.ErrContactExists)
}

func TestSendRequestWhenReversePending(t *testing.T) {
	edges := newFakeEdges()
	svc := newTestService(edges)

	require.NoError(t, svc.SendRequest(context.Background(), 2, "a@test.com"))

	err := svc.SendRequest(context.Background(), 1, "b@test.com")
	assert.ErrorIs(t, err, ErrReversePending)
}

func TestAcceptMakesFriendshipSymmetric(t *testing.T) {
	edges := newFakeEdges()
	svc := newTestService(edges)

	require.NoError(t, svc.SendRequest(context.Background(), 1, "b@test.com"))
	require.NoError(t, svc.Accept(context.Background(), 2, "a@test.com"))

	for _, memberID := range []int64{1, 2} {
		friends, err := svc.Friends(context.Background(), memberID)
		require.NoError(t, err)
		assert.Len(t, friends, 1, "member %d should have one friend", memberID)
	}
}

func TestAcceptWithoutRequest(t *testing.T) {
	svc := newTestService(newFakeEdges())

	err := svc.Accept(context.Background(), 2, "a@test.com")
	assert.ErrorIs(t, err, storage.ErrRequestNotFound)
}

func TestDeleteRemovesBothDirections(t *testing.T) {
	edges := newFakeEdges()
	svc := newTestService(edges)

	require.NoError(t, svc.SendRequest(context.Background(), 1, "b@test.com"))
	require.NoError(t, svc.Accept(context.Background(), 2, "a@test.com"))

	require.NoError(t, svc.Delete(context.Background(), 1, "b@test.com"))

	assert.Empty(t, edges.edges)
}

func TestDeleteAbsentContact(t *testing.T) {
	svc := newTestService(newFakeEdges())

	// Deleting a contact that does not exist still succeeds.
	assert.NoError(t, svc.Delete(context.Background(), 1, "b@test.com"))
}
