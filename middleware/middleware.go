package middleware

import (
	"college-chat/config/logger"
	"college-chat/dto/res"
	"college-chat/security"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type Middleware struct {
	Secret   []byte
	Verifier security.Verifier
	Log      *logrus.Logger
	AppLog   *logger.AppLogger
}

func NewMiddleware(secret []byte, verifier security.Verifier, log *logrus.Logger, appLogger *logger.AppLogger) *Middleware {
	return &Middleware{Secret: secret, Verifier: verifier, Log: log, AppLog: appLogger}
}

func (middleware *Middleware) JWTProtected(c *fiber.Ctx) error {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: middleware.Secret},
		ContextKey: "jwt",
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			middleware.Log.WithError(err).Warn("Failed to validate JWT")
			return unauthorized(ctx, "Token is not valid")
		},
	})(c)
}

func (middleware *Middleware) ExtractUserID(c *fiber.Ctx) error {
	token, ok := c.Locals("jwt").(*jwt.Token)
	if !ok {
		return unauthorized(c, "Token is not valid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(c, "Token is not valid")
	}

	userID, err := security.UserIDFromClaims(claims)
	if err != nil {
		middleware.Log.WithError(err).Warn("Failed to extract user ID from token")
		return unauthorized(c, "Failed to extract user ID from token")
	}

	c.Locals("user_id", userID)
	return c.Next()
}

// WebSocketAuth refuses the upgrade unless the access query parameter holds a
// valid credential.
func (middleware *Middleware) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, err := middleware.Verifier.Verify(c.Query("access"))
	if err != nil {
		middleware.AppLog.WS.Warn().Str("ip", c.IP()).Msg("handshake rejected")
		return fiber.ErrUnauthorized
	}

	c.Locals("user_id", userID)
	return c.Next()
}

func (middleware *Middleware) RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	event := middleware.AppLog.Http.Info()
	if status >= fiber.StatusInternalServerError {
		event = middleware.AppLog.Http.Error()
	}
	event.
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(res.ErrorResponse{
		Status:     fiber.ErrUnauthorized.Message,
		StatusCode: fiber.StatusUnauthorized,
		Error:      msg,
	})
}
