package mail

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	messages []*Message
}

func (s *captureSender) Send(message *Message) error {
	s.messages = append(s.messages, message)
	return nil
}

func TestSendLoginCode(t *testing.T) {
	engine := render.NewHtmlEngine("")
	require.NoError(t, engine.Load())
	Initialize(engine, fiber.Map{"siteName": "Test Portal"})

	sender := &captureSender{}
	require.NoError(t, SendLoginCode(sender, "ada@x.com", "Ada", "482913", 10*time.Minute))
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, []string{"ada@x.com"}, msg.To)
	assert.True(t, msg.IsHTML)
	assert.Contains(t, msg.Body, "482913")
	assert.Contains(t, msg.Body, "Test Portal")
	assert.Contains(t, msg.Body, "10m0s")
}
