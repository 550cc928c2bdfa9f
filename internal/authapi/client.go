package authapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const (
	pathRequestLoginCode   = "/auth/login/request-code"
	pathCheckRemembered    = "/auth/login/check-remembered"
	pathVerifyLoginCode    = "/auth/login/verify"
	pathRegister           = "/auth/register"
	pathVerifyEmail        = "/auth/verify-email"
	pathResendVerification = "/auth/verify-email/resend"
	pathTwoFactorSetup     = "/auth/2fa/setup"
	pathTwoFactorSetupOK   = "/auth/2fa/setup/verify"
	pathTwoFactorLogin     = "/auth/2fa/login"

	DeviceTokenHeader = "X-Device-Token"
)

// Client talks to the external auth backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type requestOptions struct {
	bearer      string
	deviceToken string
}

func (c *Client) post(ctx context.Context, path string, opts requestOptions, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if opts.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+opts.bearer)
	}
	if opts.deviceToken != "" {
		req.Header.Set(DeviceTokenHeader, opts.deviceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if len(data) > 0 && json.Unmarshal(data, &errResp) == nil {
			msg := errResp.Message
			if msg == "" {
				msg = errResp.Error
			}
			return &APIError{StatusCode: resp.StatusCode, Message: msg}
		}
		return &APIError{StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if len(data) == 0 {
		return &TransportError{Op: path, Err: ErrEmptyResponse}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) RequestLoginCode(ctx context.Context, email string, rememberMe bool) error {
	body := map[string]any{"email": email, "rememberMe": rememberMe}
	return c.post(ctx, pathRequestLoginCode, requestOptions{}, body, nil)
}

func (c *Client) CheckRememberedSession(ctx context.Context, email string, deviceToken string) (*RememberedSession, error) {
	var result RememberedSession
	body := map[string]any{"email": email}
	if err := c.post(ctx, pathCheckRemembered, requestOptions{deviceToken: deviceToken}, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) VerifyLoginCode(ctx context.Context, req VerifyLoginRequest) (*LoginResult, error) {
	var result LoginResult
	if err := c.post(ctx, pathVerifyLoginCode, requestOptions{}, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) RegisterAdmin(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, pathRegister, requestOptions{}, req, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, email string, code string) (*EmailVerification, error) {
	var result EmailVerification
	body := map[string]any{"email": email, "code": code}
	if err := c.post(ctx, pathVerifyEmail, requestOptions{}, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ResendVerificationCode(ctx context.Context, email string) error {
	body := map[string]any{"email": email}
	return c.post(ctx, pathResendVerification, requestOptions{}, body, nil)
}

func (c *Client) GenerateTwoFactorSecret(ctx context.Context, setupToken string) (*TwoFactorSecret, error) {
	var result TwoFactorSecret
	if err := c.post(ctx, pathTwoFactorSetup, requestOptions{bearer: setupToken}, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) VerifyTwoFactorSetup(ctx context.Context, setupToken string, code string) (*TwoFactorSetupResult, error) {
	var result TwoFactorSetupResult
	body := map[string]any{"code": code}
	if err := c.post(ctx, pathTwoFactorSetupOK, requestOptions{bearer: setupToken}, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) VerifyTwoFactorLogin(ctx context.Context, req TwoFactorLoginRequest) (*TwoFactorLoginResult, error) {
	var result TwoFactorLoginResult
	if err := c.post(ctx, pathTwoFactorLogin, requestOptions{}, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}
