package authjwt

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"messaging_service/internal/lib/tokens"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, int64, bool) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotID int64
	var gotOK bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = MemberID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/user-info", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	rr := httptest.NewRecorder()
	New(log, secret)(next).ServeHTTP(rr, req)

	return rr, gotID, gotOK
}

func TestValidToken(t *testing.T) {
	token, err := tokens.NewSessionToken(42, "a@test.com", secret, time.Hour)
	require.NoError(t, err)

	rr, gotID, gotOK := serve(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, gotOK)
	assert.Equal(t, int64(42), gotID)
}

func TestMissingHeader(t *testing.T) {
	rr, _, gotOK := serve(t, "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, gotOK)
	assert.Contains(t, rr.Body.String(), "Auth token is not supplied")
}

func TestWrongScheme(t *testing.T) {
	rr, _, gotOK := serve(t, "Basic abcdef")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, gotOK)
}

func TestExpiredToken(t *testing.T) {
	token, err := tokens.NewSessionToken(42, "a@test.com", secret, -time.Minute)
	require.NoError(t, err)

	rr, _, _ := serve(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Token is not valid")
}

func TestForgedToken(t *testing.T) {
	token, err := tokens.NewSessionToken(42, "a@test.com", "other-secret", time.Hour)
	require.NoError(t, err)

	rr, _, _ := serve(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
