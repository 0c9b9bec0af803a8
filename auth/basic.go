package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	BasicAuthName = "basic"
)

func init() {
	register(&basicAuth{})
}

type basicAuth struct {
}

func (b *basicAuth) Name() string {
	return BasicAuthName
}

func (b *basicAuth) Challenge(ctx context.Context, opt *VerifyOption) string {
	return fmt.Sprintf(`Basic realm="%s"`, escapeQuoted(opt.Realm))
}

// decodeBasic splits on the last ':', identity urls carry ':' in the user
// part while passwords rarely do.
func decodeBasic(header string) (string, string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BasicAuthName) {
		return "", "", fmt.Errorf("not basic")
	}
	dec, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", err
	}
	idx := strings.LastIndex(string(dec), ":")
	if idx < 0 {
		return "", "", fmt.Errorf("malformed basic")
	}
	return string(dec[:idx]), string(dec[idx+1:]), nil
}

func (b *basicAuth) Auth(ctx *gin.Context, opt *VerifyOption) (string, error) {
	user, pwd, err := decodeBasic(ctx.GetHeader("Authorization"))
	if err != nil {
		return "", fmt.Errorf("no auth found, err:%w", err)
	}
	sk, ok, err := opt.UserQuery(ctx.Request.Context(), user)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("user not found, u:%s", user)
	}
	if sk != pwd {
		return "", fmt.Errorf("password not match, u:%s", user)
	}
	return user, nil
}
