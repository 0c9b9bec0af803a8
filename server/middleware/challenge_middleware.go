package middleware

import (
	"net/http"

	"github.com/xxxsen/cbdav/auth"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	keyAuthUser = "cbdav_auth_user"
)

// ChallengeMiddleware lets the request through when it carries valid
// credentials for ia, otherwise it answers 401 with a fresh challenge.
func ChallengeMiddleware(ia auth.IAuth, opt *auth.VerifyOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := logutil.GetLogger(ctx).With(zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path), zap.String("ip", c.ClientIP()))
		user, err := ia.Auth(c, opt)
		if err != nil {
			logger.Debug("user auth failed, send challenge", zap.String("auth", ia.Name()), zap.Error(err))
			c.Header("WWW-Authenticate", ia.Challenge(ctx, opt))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		logger.Debug("user auth succ", zap.String("auth", ia.Name()), zap.String("user", user))
		c.Set(keyAuthUser, user)
	}
}

func GetAuthUser(c *gin.Context) (string, bool) {
	v, ok := c.Get(keyAuthUser)
	if !ok {
		return "", false
	}
	user, ok := v.(string)
	return user, ok
}
