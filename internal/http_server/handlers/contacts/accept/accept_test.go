package accept

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"messaging_service/internal/lib/tokens"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type fakeAccepter struct {
	err error
}

func (f *fakeAccepter) Accept(_ context.Context, _ int64, _ string) error {
	return f.err
}

func serve(t *testing.T, svc *fakeAccepter) *httptest.ResponseRecorder {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	token, err := tokens.NewSessionToken(1, "a@test.com", secret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/contacts/accept",
		bytes.NewReader([]byte(`{"email":"b@test.com"}`)))
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	authjwt.New(log, secret)(New(log, validator.New(), svc)).ServeHTTP(rr, req)

	return rr
}

func TestAcceptSuccess(t *testing.T) {
	rr := serve(t, &fakeAccepter{})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Friend request accepted")
}

func TestAcceptWithoutPendingRequest(t *testing.T) {
	rr := serve(t, &fakeAccepter{err: storage.ErrRequestNotFound})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Friend request not found")
}

func TestAcceptUnknownMember(t *testing.T) {
	rr := serve(t, &fakeAccepter{err: storage.ErrMemberNotFound})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not found")
}
