package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***e@e*****e.com", maskEmail("alice@example.com"))
	assert.Equal(t, "a@b.com", maskEmail("a@b.com"))
	assert.Equal(t, "a*@x*.io", maskEmail("ab@xy.io"))
	assert.Equal(t, "not-an-email", maskEmail("not-an-email"))
}

func TestQRCodeURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AAAA", string(qrCodeURL("data:image/png;base64,AAAA")))
	assert.Empty(t, string(qrCodeURL("javascript:alert(1)")))
}
