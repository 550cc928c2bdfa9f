package csrf

import (
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
	"github.com/khanghh/admin-portal/params"
)

const (
	CSRFTokenSessionKey = "_csrf"
	CSRFTokenFormField  = "_csrf"
	CSRFTokenHeader     = "X-CSRF-Token"
)

var (
	ErrInvalidToken = errors.New("invalid CSRF token")
)

type CSRF struct {
	Token     string
	ExpiresAt time.Time
}

func init() {
	gob.Register(CSRF{})
}

// Get returns the session's token, issuing a new one when it is missing
// or expired.
func Get(session *sessions.Session) CSRF {
	csrf, ok := sessions.Value[CSRF](session, CSRFTokenSessionKey)
	if !ok || time.Now().After(csrf.ExpiresAt) {
		csrf = generateCSRF()
		session.Set(CSRFTokenSessionKey, csrf)
	}
	return csrf
}

func Verify(ctx *fiber.Ctx) bool {
	token := ctx.Get(CSRFTokenHeader)
	if token == "" && ctx.Method() == fiber.MethodPost {
		token = ctx.FormValue(CSRFTokenFormField)
	}

	csrf, ok := sessions.Value[CSRF](sessions.Get(ctx), CSRFTokenSessionKey)
	if !ok || token == "" || time.Now().After(csrf.ExpiresAt) || csrf.Token != token {
		return false
	}
	return true
}

func randomToken() string {
	const tokenLength = 32
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate CSRF token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func generateCSRF() CSRF {
	return CSRF{
		Token:     randomToken(),
		ExpiresAt: time.Now().Add(params.CSRFTokenExpiration),
	}
}

// New rejects unsafe requests that do not carry the session's token.
func New() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		switch ctx.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return ctx.Next()
		}
		if !Verify(ctx) {
			return fiber.NewError(fiber.StatusForbidden, ErrInvalidToken.Error())
		}
		return ctx.Next()
	}
}
