package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(NewIdentityMiddleware(tm).Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		fromContext := IdentityFromContext(c.UserContext())
		if identity == nil {
			if fromContext != nil {
				return c.SendString("mismatch")
			}
			return c.SendString("anonymous")
		}
		return c.SendString(identity.SubjectID + "|" + fromContext.SubjectID)
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIdentityMiddlewareNeverRejects(t *testing.T) {
	tm, _ := newTestManager(t, time.Now)
	app := newIdentityApp(t, tm)

	token, _, err := tm.Issue("user-7")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", want: "anonymous"},
		{name: "wrong scheme", header: "Basic abc", want: "anonymous"},
		{name: "garbage token", header: "Bearer garbage", want: "anonymous"},
		{name: "valid token", header: "Bearer " + token, want: "user-7|user-7"},
		{name: "lowercase scheme", header: "bearer " + token, want: "user-7|user-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := whoami(t, app, tt.header)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestBearerToken(t *testing.T) {
	_, ok := BearerToken("nope")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer")
	assert.False(t, ok)
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)
}
