package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func originRequest(origin string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/ws/balance", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestAllowOrigins(t *testing.T) {
	t.Run("local aceita qualquer origem", func(t *testing.T) {
		check := AllowOrigins("local", "")
		assert.True(t, check(originRequest("https://evil.example.com")))
		assert.True(t, check(originRequest("")))
	})

	t.Run("fora de local so a allowlist passa", func(t *testing.T) {
		check := AllowOrigins("prod", "https://app.example.com, https://staging.example.com")
		assert.True(t, check(originRequest("https://app.example.com")))
		assert.True(t, check(originRequest("HTTPS://APP.EXAMPLE.COM")))
		assert.True(t, check(originRequest("https://staging.example.com")))
		assert.False(t, check(originRequest("https://evil.example.com")))
	})

	t.Run("lista vazia em prod barra browsers", func(t *testing.T) {
		check := AllowOrigins("prod", "")
		assert.False(t, check(originRequest("https://app.example.com")))
		// cliente sem header Origin (não-browser) passa
		assert.True(t, check(originRequest("")))
	})
}
