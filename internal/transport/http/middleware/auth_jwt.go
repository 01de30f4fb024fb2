package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/core/auth"
	"go-gin-gorm-crm/internal/metrics"
	"go-gin-gorm-crm/internal/transport/http/ez"
	resp "go-gin-gorm-crm/internal/transport/http/response"
)

// Resolver turns a bearer token into the caller's user id.
type Resolver func(ctx context.Context, token string) (int64, error)

// AuthJWT rejects requests without a resolvable bearer token. Every rejection gets the
// same 401 body; the reason only reaches the log and crm_token_rejections_total.
func AuthJWT(resolve Resolver, m *metrics.Recorder, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			reject(c, m, l, "missing", nil)
			return
		}
		uid, err := resolve(c.Request.Context(), tok)
		if err != nil {
			reject(c, m, l, rejectReason(err), err)
			return
		}
		c.Set(ez.KeyUserID, uid)
		c.Next()
	}
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid"
	}
	return "unknown_user"
}

func reject(c *gin.Context, m *metrics.Recorder, l *zap.Logger, reason string, err error) {
	m.TokenRejected(reason)
	l.Info("token rejected",
		zap.String("rid", c.GetString(KeyRequestID)),
		zap.String("path", c.FullPath()),
		zap.String("reason", reason),
		zap.Error(err),
	)
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(resp.Status(resp.CodeUnauthorized), resp.Error(resp.CodeUnauthorized, "unauthorized"))
}
