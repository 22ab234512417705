package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/job-atlas/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func TestKeyedRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/embed", KeyedRateLimiter(ratelimit.New(2, time.Minute)), ok)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/embed", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/embed", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestAdminToken(t *testing.T) {
	app := fiber.New()
	app.Post("/admin", AdminToken("s3cret"), ok)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "nope", fiber.StatusUnauthorized},
		{"valid", "s3cret", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin", nil)
			if tt.header != "" {
				req.Header.Set(AdminTokenHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminTokenEmptyConfigDeniesAll(t *testing.T) {
	app := fiber.New()
	app.Post("/admin", AdminToken(""), ok)

	resp, err := app.Test(httptest.NewRequest("POST", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
