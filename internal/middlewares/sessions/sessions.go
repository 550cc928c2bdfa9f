package sessions

import (
	"encoding/gob"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const injectSessionKey = "session"

func init() {
	gob.Register(time.Time{})
}

// Session is the server side state of one browser. Values stored in it
// must be registered with encoding/gob.
type Session struct {
	*session.Session
}

// Value returns the value stored under key if it has type T.
func Value[T any](s *Session, key string) (T, bool) {
	val, ok := s.Get(key).(T)
	return val, ok
}

// ValueOr returns the value stored under key, or def when absent.
func ValueOr[T any](s *Session, key string, def T) T {
	if val, ok := Value[T](s, key); ok {
		return val
	}
	return def
}

func Get(ctx *fiber.Ctx) *Session {
	sess, ok := ctx.Locals(injectSessionKey).(*Session)
	if ok {
		return sess
	}
	return nil
}

// Reset drops all session data and issues a new session id.
func Reset(ctx *fiber.Ctx) error {
	return Get(ctx).Reset()
}

// Regenerate issues a new session id while keeping the session data.
func Regenerate(ctx *fiber.Ctx) error {
	return Get(ctx).Regenerate()
}

func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess, err := store.Get(ctx)
		if err != nil {
			return err
		}

		ctx.Locals(injectSessionKey, &Session{Session: sess})
		if err := ctx.Next(); err != nil {
			return err
		}
		return sess.Save()
	}
}

func NewStore(storage fiber.Storage, cookieName string, maxAge time.Duration, httpOnly, secure bool) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     maxAge,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: httpOnly,
		CookieSecure:   secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}
