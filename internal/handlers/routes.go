package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts the auth flow and dashboard. codeLimiter throttles
// requests that make the backend send an email.
func SetupRoutes(router fiber.Router, authHandler *AuthHandler, homeHandler *HomeHandler, guard *InflightGuard, codeLimiter fiber.Handler) {
	router.Get("/", homeHandler.GetHome)
	router.Post("/logout", homeHandler.PostLogout)

	router.Get("/auth", authHandler.GetAuth)
	router.Post("/auth/switch", authHandler.PostSwitch)
	router.Post("/auth/back", authHandler.PostBack)
	router.Post("/auth/close", authHandler.PostClose)

	router.Post("/auth/login/code", codeLimiter, guard.Guard("login"), authHandler.PostRequestCode)
	router.Post("/auth/login/resend", codeLimiter, guard.Guard("login"), authHandler.PostResendCode)
	router.Post("/auth/login/verify", guard.Guard("login"), authHandler.PostVerifyCode)
	router.Post("/auth/login/change-email", guard.Guard("login"), authHandler.PostChangeEmail)

	router.Post("/auth/register", guard.Guard("register"), authHandler.PostRegister)

	router.Post("/auth/verify-email", guard.Guard("verification"), authHandler.PostVerifyEmail)
	router.Post("/auth/verify-email/continue", guard.Guard("verification"), authHandler.PostContinueVerification)
	router.Post("/auth/verify-email/resend", codeLimiter, guard.Guard("verification"), authHandler.PostResendVerification)

	router.Post("/auth/2fa/setup/begin", guard.Guard("enrollment"), authHandler.PostSetupBegin)
	router.Post("/auth/2fa/setup/verify", guard.Guard("enrollment"), authHandler.PostSetupVerify)
	router.Post("/auth/2fa/setup/finish", guard.Guard("enrollment"), authHandler.PostSetupFinish)
	router.Get("/auth/2fa/setup/recovery-codes.txt", authHandler.GetRecoveryCodes)

	router.Post("/auth/2fa/mode", guard.Guard("challenge"), authHandler.PostChallengeMode)
	router.Post("/auth/2fa/login", guard.Guard("challenge"), authHandler.PostChallengeLogin)
}
