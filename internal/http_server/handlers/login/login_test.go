package login

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"messaging_service/internal/auth"
	"messaging_service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	token string
	err   error
}

func (f *fakeAuthenticator) Login(_ context.Context, _, _ string) (string, error) {
	return f.token, f.err
}

func serve(authenticator *fakeAuthenticator, header string) *httptest.ResponseRecorder {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(log, authenticator)

	req := httptest.NewRequest(http.MethodGet, "/signin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func basicAuth(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestLoginSuccess(t *testing.T) {
	rr := serve(&fakeAuthenticator{token: "session-token"}, basicAuth("a@test.com", "Passw0rd!"))

	assert.Equal(t, http.StatusOK, rr.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "session-token", body.Token)
	assert.Equal(t, "Authentication successful!", body.Message)
}

func TestLoginMissingHeader(t *testing.T) {
	rr := serve(&fakeAuthenticator{}, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing Authorization Header")
}

func TestLoginMalformedCredentials(t *testing.T) {
	rr := serve(&fakeAuthenticator{}, "Basic not-base64!!!")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid Credentials")
}

func TestLoginUnknownUser(t *testing.T) {
	rr := serve(&fakeAuthenticator{err: storage.ErrMemberNotFound}, basicAuth("a@test.com", "Passw0rd!"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not found")
}

func TestLoginUnverified(t *testing.T) {
	rr := serve(&fakeAuthenticator{err: auth.ErrNotVerified}, basicAuth("a@test.com", "Passw0rd!"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Account needs to be verified before you can sign in")
}

func TestLoginWrongPassword(t *testing.T) {
	rr := serve(&fakeAuthenticator{err: auth.ErrInvalidCredentials}, basicAuth("a@test.com", "Passw0rd!"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid Email or Password")
}
