package authapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path    string
	headers http.Header
	body    map[string]any
}

func newTestServer(t *testing.T, status int, response string) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body := map[string]any{}
		_ = json.Unmarshal(data, &body)
		requests = append(requests, recordedRequest{path: r.URL.Path, headers: r.Header.Clone(), body: body})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", time.Second), &requests
}

func TestVerifyTwoFactorLoginSendsOnlyOneCredential(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"token":"tok","user":{"id":"1","email":"a@b.com","role":"admin"}}`)
	ctx := context.Background()

	_, err := client.VerifyTwoFactorLogin(ctx, TwoFactorLoginRequest{Email: "a@b.com", Code: "123456"})
	require.NoError(t, err)
	_, err = client.VerifyTwoFactorLogin(ctx, TwoFactorLoginRequest{Email: "a@b.com", RecoveryCode: "AAAA-1111-XX"})
	require.NoError(t, err)

	require.Len(t, *requests, 2)
	first, second := (*requests)[0], (*requests)[1]
	assert.Equal(t, "/api/auth/2fa/login", first.path)
	assert.Equal(t, "123456", first.body["code"])
	assert.NotContains(t, first.body, "recoveryCode")
	assert.Equal(t, "AAAA-1111-XX", second.body["recoveryCode"])
	assert.NotContains(t, second.body, "code")
}

func TestVerifyLoginCodeDecodesBranch(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{"requiresTwoFactorSetup":true,"setupToken":"setup-1"}`)

	result, err := client.VerifyLoginCode(context.Background(), VerifyLoginRequest{Email: "a@b.com", Code: "123456"})
	require.NoError(t, err)
	assert.True(t, result.RequiresTwoFactorSetup)
	assert.False(t, result.RequiresTwoFactor)
	assert.Equal(t, "setup-1", result.SetupToken)
}

func TestSetupCallsCarryBearer(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"secret":"JBSWY3DPEHPK3PXP","qrCode":"data:image/png;base64,AAAA"}`)

	secret, err := client.GenerateTwoFactorSecret(context.Background(), "setup-1")
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", secret.Secret)
	assert.Equal(t, "Bearer setup-1", (*requests)[0].headers.Get("Authorization"))
}

func TestRememberedSessionForwardsDeviceToken(t *testing.T) {
	client, requests := newTestServer(t, http.StatusOK, `{"success":true,"autoLogin":false}`)

	result, err := client.CheckRememberedSession(context.Background(), "a@b.com", "device-1")
	require.NoError(t, err)
	assert.False(t, result.AutoLogin)
	assert.Equal(t, "device-1", (*requests)[0].headers.Get(DeviceTokenHeader))
}

func TestBackendRejectionMessage(t *testing.T) {
	client, _ := newTestServer(t, http.StatusBadRequest, `{"message":"Invalid or expired code"}`)

	err := client.RequestLoginCode(context.Background(), "a@b.com", false)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, "Invalid or expired code", msg)
}

func TestBackendRejectionWithoutBody(t *testing.T) {
	client, _ := newTestServer(t, http.StatusInternalServerError, ``)

	err := client.RegisterAdmin(context.Background(), RegisterRequest{Email: "a@b.com"})
	_, ok := Message(err)
	assert.False(t, ok)
}

func TestTransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	err := client.RequestLoginCode(context.Background(), "a@b.com", false)
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	_, ok := Message(err)
	assert.False(t, ok)
}
