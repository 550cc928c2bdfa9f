package mail

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/valyala/bytebufferpool"
)

var ErrNotInitialized = errors.New("mail templates are not initialized")

var (
	htmlEngine *html.Engine
	globalVars fiber.Map
)

// Initialize sets the engine mail bodies are rendered with. gVars are
// available to every mail template.
func Initialize(engine *html.Engine, gVars fiber.Map) {
	htmlEngine = engine
	globalVars = gVars
}

func renderHTML(templateName string, vars fiber.Map) (string, error) {
	if htmlEngine == nil {
		return "", ErrNotInitialized
	}
	data := make(fiber.Map, len(globalVars)+len(vars))
	for k, v := range globalVars {
		data[k] = v
	}
	for k, v := range vars {
		data[k] = v
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := htmlEngine.Render(buf, templateName, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
