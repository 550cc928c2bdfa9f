package handlers

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/auth"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
)

// InflightGuard allows one mutating request per session and controller at
// a time. Duplicates are rejected with 409 instead of queued.
type InflightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func (g *InflightGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *InflightGuard) release(key string) {
	g.mu.Lock()
	delete(g.active, key)
	g.mu.Unlock()
}

func (g *InflightGuard) Guard(controller string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := sessions.Get(ctx).ID() + ":" + controller
		if !g.acquire(key) {
			return fiber.NewError(fiber.StatusConflict, MsgRequestInProgress)
		}
		defer g.release(key)
		return ctx.Next()
	}
}

// CodeLimitReached is the limiter response for routes that send codes. The
// user stays on the current view and sees why nothing was sent.
func CodeLimitReached(ctx *fiber.Ctx) error {
	setFlash(sessions.Get(ctx), Flash{Errors: map[string]string{auth.FieldForm: MsgTooManyCodeRequests}})
	return redirectAuth(ctx)
}

func NewInflightGuard() *InflightGuard {
	return &InflightGuard{active: make(map[string]struct{})}
}
