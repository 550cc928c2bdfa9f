package render

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var globalVars fiber.Map

const qrCodeDataURLPrefix = "data:image/png;base64,"

func InitValues(data fiber.Map) {
	globalVars = data
}

func NewHtmlEngine(templateDir string) *html.Engine {
	if templateDir != "" {
		return html.NewFileSystem(http.Dir(templateDir), ".html")
	}
	renderFS, _ := fs.Sub(templateFS, "templates")
	return html.NewFileSystem(http.FS(renderFS), ".html")
}

// qrCodeURL only lets PNG data URLs through to the img tag.
func qrCodeURL(qrCode string) template.URL {
	if !strings.HasPrefix(qrCode, qrCodeDataURLPrefix) {
		return ""
	}
	return template.URL(qrCode)
}

func RenderAuth(ctx *fiber.Ctx, data AuthPageData) error {
	return ctx.Render("auth", fiber.Map{
		"siteName":         globalVars["siteName"],
		"csrfToken":        data.CSRFToken,
		"view":             data.View,
		"title":            data.Title,
		"canGoBack":        data.CanGoBack,
		"errors":           data.Errors,
		"notice":           data.Notice,
		"refreshAfter":     data.RefreshAfter,
		"email":            data.Email,
		"maskedEmail":      maskEmail(data.Email),
		"rememberMe":       data.RememberMe,
		"codeRequested":    data.CodeRequested,
		"resendIn":         data.ResendIn,
		"fullName":         data.FullName,
		"organization":     data.Organization,
		"agreeToTerms":     data.AgreeToTerms,
		"turnstileSiteKey": data.TurnstileSiteKey,
		"digits":           data.Digits,
		"focus":            data.Focus,
		"verified":         data.Verified,
		"resumed":          data.Resumed,
		"setupStep":        data.SetupStep,
		"secret":           data.Secret,
		"qrCode":           qrCodeURL(data.QRCode),
		"recoveryCodes":    data.RecoveryCodes,
		"mode":             data.Mode,
	})
}

func RenderHomePage(ctx *fiber.Ctx, data HomePageData) error {
	return ctx.Render("home", fiber.Map{
		"siteName":  globalVars["siteName"],
		"csrfToken": data.CSRFToken,
		"fullName":  data.FullName,
		"email":     data.Email,
		"company":   data.Company,
		"role":      data.Role,
	})
}

func renderError(ctx *fiber.Ctx, title string, message string) error {
	return ctx.Render("error", fiber.Map{
		"siteName": globalVars["siteName"],
		"title":    title,
		"message":  message,
	})
}

func RenderBadRequestError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Bad Request", "The request could not be understood.")
}

func RenderForbiddenError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Forbidden", "Your session has expired. Please reload the page and try again.")
}

func RenderNotFoundError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Not Found", "The page you are looking for does not exist.")
}

func RenderConflictError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Request In Progress", "Your previous request is still being processed.")
}

func RenderTooManyRequestsError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Too Many Requests", "Please wait a moment before trying again.")
}

func RenderInternalServerError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Something Went Wrong", "An unexpected error occurred. Please try again later.")
}
