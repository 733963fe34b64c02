package middleware

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AuthCookieName       = "auth-token"
	RequestIDHeader      = "X-Request-ID"
	SnapshotSecretHeader = "X-Snapshot-Secret"
)

type TokenParser interface {
	ParseToken(token string) (model.Session, error)
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		rqID := c.GetHeader(RequestIDHeader)
		if rqID == "" {
			rqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, rqID)
		c.Request = c.Request.WithContext(utils.WithRequestID(c.Request.Context(), rqID))

		slog.Info(
			"start request",
			slog.String("rqID", rqID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)

		defer func() {
			slog.Info(
				"request finished",
				slog.String("rqID", rqID),
				slog.Int("status", c.Writer.Status()),
				slog.String("request duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
			)
		}()

		c.Next()
	}
}

// Auth accepts the session token from the auth cookie or a bearer header.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		rqID := utils.GetRequestIDFromCtx(c.Request.Context())

		token, err := c.Cookie(AuthCookieName)
		if err != nil || token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		session, err := parser.ParseToken(token)
		if err != nil {
			slog.Info("invalid session token", slog.String("rqID", rqID), slog.String("err", err.Error()))
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(AuthCookieName, "", -1, "/", "", false, true)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Request = c.Request.WithContext(utils.WithUserID(c.Request.Context(), session.UserID))
		c.Next()
	}
}

// SharedSecret protects internal endpoints called by a cron or a deploy hook.
// An empty secret closes the endpoint.
func SharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(SnapshotSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
