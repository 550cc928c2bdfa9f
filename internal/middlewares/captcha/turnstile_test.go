package captcha

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) *TurnstileVerifier {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "secret", payload["secret"])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(turnstileResponse{Success: payload["response"] == "good"})
	}))
	t.Cleanup(srv.Close)

	v := NewTurnstileVerifier("secret")
	v.verifyURL = srv.URL
	return v
}

func TestTurnstileVerify(t *testing.T) {
	v := newTestVerifier(t)
	app := fiber.New()
	app.Post("/", func(ctx *fiber.Ctx) error {
		if err := v.Verify(ctx); err != nil {
			return ctx.SendStatus(fiber.StatusForbidden)
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	post := func(answer string) int {
		form := url.Values{}
		if answer != "" {
			form.Set(turnstileResponseField, answer)
		}
		req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusNoContent, post("good"))
	assert.Equal(t, fiber.StatusForbidden, post("bad"))
	assert.Equal(t, fiber.StatusForbidden, post(""))
}
