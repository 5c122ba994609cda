package middleware

import (
	"college-chat/config/logger"
	"college-chat/security"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func newTestMiddleware() *Middleware {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewMiddleware([]byte(testSecret), security.NewJWT([]byte(testSecret)), log, logger.Nop())
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func echoUser(c *fiber.Ctx) error {
	return c.SendString(fmt.Sprint(c.Locals("user_id")))
}

func send(t *testing.T, app *fiber.App, request *fiberRequest) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, request.target, nil)
	for key, value := range request.headers {
		req.Header.Set(key, value)
	}
	response, err := app.Test(req, -1)
	require.NoError(t, err)
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return response.StatusCode, string(body)
}

type fiberRequest struct {
	target  string
	headers map[string]string
}

func TestJWTProtectedSetsUserID(t *testing.T) {
	m := newTestMiddleware()
	app := fiber.New()
	app.Get("/me", m.JWTProtected, m.ExtractUserID, echoUser)

	token := signToken(t, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(time.Hour).Unix()})
	status, body := send(t, app, &fiberRequest{target: "/me", headers: map[string]string{"Authorization": "Bearer " + token}})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "7", body)

	status, _ = send(t, app, &fiberRequest{target: "/me"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired := signToken(t, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	status, _ = send(t, app, &fiberRequest{target: "/me", headers: map[string]string{"Authorization": "Bearer " + expired}})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestExtractUserIDRejectsTokenWithoutUser(t *testing.T) {
	m := newTestMiddleware()
	app := fiber.New()
	app.Get("/me", m.JWTProtected, m.ExtractUserID, echoUser)

	token := signToken(t, jwt.MapClaims{"sub": "nobody", "exp": time.Now().Add(time.Hour).Unix()})
	status, body := send(t, app, &fiberRequest{target: "/me", headers: map[string]string{"Authorization": "Bearer " + token}})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "Failed to extract user ID from token")
}

func TestWebSocketAuth(t *testing.T) {
	m := newTestMiddleware()
	app := fiber.New()
	app.Use("/ws", m.WebSocketAuth)
	app.Get("/ws/chat", echoUser)

	upgrade := map[string]string{"Connection": "Upgrade", "Upgrade": "websocket"}
	token := signToken(t, jwt.MapClaims{"user_id": "12", "exp": time.Now().Add(time.Hour).Unix()})

	status, _ := send(t, app, &fiberRequest{target: "/ws/chat?access=" + token})
	assert.Equal(t, fiber.StatusUpgradeRequired, status)

	status, _ = send(t, app, &fiberRequest{target: "/ws/chat?access=forged", headers: upgrade})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, &fiberRequest{target: "/ws/chat", headers: upgrade})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := send(t, app, &fiberRequest{target: "/ws/chat?access=" + token, headers: upgrade})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "12", body)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	m := newTestMiddleware()
	app := fiber.New()
	app.Use(m.RequestLogger)
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	status, body := send(t, app, &fiberRequest{target: "/ok"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, _ = send(t, app, &fiberRequest{target: "/boom"})
	assert.Equal(t, fiber.StatusTeapot, status)
}
