package auth

import (
	"context"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DigestAuthName = "digest"
)

const (
	algorithmMD5     = "MD5"
	algorithmMD5Sess = "MD5-sess"
	qopAuth          = "auth"
)

func init() {
	register(&digestAuth{})
}

type DigestInfo struct {
	Realm     string
	Qop       string
	Nonce     string
	Opaque    string
	Algorithm string
}

func parseDigestInfo(ch *Challenge) (*DigestInfo, error) {
	info := &DigestInfo{
		Realm:     ch.Param("realm"),
		Nonce:     ch.Param("nonce"),
		Opaque:    ch.Param("opaque"),
		Algorithm: ch.Param("algorithm"),
	}
	if len(info.Nonce) == 0 {
		return nil, fmt.Errorf("digest challenge without nonce")
	}
	switch {
	case len(info.Algorithm) == 0, strings.EqualFold(info.Algorithm, algorithmMD5):
	case strings.EqualFold(info.Algorithm, algorithmMD5Sess):
		info.Algorithm = algorithmMD5Sess
	default:
		return nil, fmt.Errorf("unsupported digest algorithm:%s", info.Algorithm)
	}
	if qop := ch.Param("qop"); len(qop) != 0 {
		for _, item := range strings.Split(qop, ",") {
			if strings.EqualFold(strings.TrimSpace(item), qopAuth) {
				info.Qop = qopAuth
				break
			}
		}
		if len(info.Qop) == 0 {
			return nil, fmt.Errorf("unsupported digest qop:%s", qop)
		}
	}
	return info, nil
}

type DigestParams struct {
	Username  string
	Realm     string
	Password  string
	Method    string
	URI       string
	Nonce     string
	Qop       string
	NC        string
	CNonce    string
	Algorithm string
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DigestResponse computes the rfc2617 request-digest.
func DigestResponse(p *DigestParams) string {
	ha1 := md5Hex(p.Username + ":" + p.Realm + ":" + p.Password)
	if strings.EqualFold(p.Algorithm, algorithmMD5Sess) {
		ha1 = md5Hex(ha1 + ":" + p.Nonce + ":" + p.CNonce)
	}
	ha2 := md5Hex(p.Method + ":" + p.URI)
	if len(p.Qop) == 0 {
		return md5Hex(ha1 + ":" + p.Nonce + ":" + ha2)
	}
	return md5Hex(strings.Join([]string{ha1, p.Nonce, p.NC, p.CNonce, p.Qop, ha2}, ":"))
}

type digestAuth struct {
}

func (d *digestAuth) Name() string {
	return DigestAuthName
}

func (d *digestAuth) Challenge(ctx context.Context, opt *VerifyOption) string {
	nonce := ""
	if opt.NewNonce != nil {
		nonce = opt.NewNonce(ctx)
	}
	return fmt.Sprintf(`Digest realm="%s", qop="%s", nonce="%s", algorithm=%s`, escapeQuoted(opt.Realm), qopAuth, nonce, algorithmMD5)
}

func (d *digestAuth) Auth(ctx *gin.Context, opt *VerifyOption) (string, error) {
	header := ctx.GetHeader("Authorization")
	ch, ok := parseAuthorization(header)
	if !ok || ch.Scheme() != SchemeDigest {
		return "", fmt.Errorf("no digest auth found")
	}
	user := ch.Param("username")
	if ch.Param("realm") != opt.Realm {
		return "", fmt.Errorf("realm not match, carry:%s", ch.Param("realm"))
	}
	nonce := ch.Param("nonce")
	if opt.CheckNonce != nil && !opt.CheckNonce(ctx.Request.Context(), nonce) {
		return "", fmt.Errorf("unknown nonce:%s", nonce)
	}
	if ch.Param("uri") != ctx.Request.RequestURI {
		return "", fmt.Errorf("uri not match, carry:%s, want:%s", ch.Param("uri"), ctx.Request.RequestURI)
	}
	pwd, ok, err := opt.UserQuery(ctx.Request.Context(), user)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("user not found, u:%s", user)
	}
	expect := DigestResponse(&DigestParams{
		Username:  user,
		Realm:     opt.Realm,
		Password:  pwd,
		Method:    ctx.Request.Method,
		URI:       ch.Param("uri"),
		Nonce:     nonce,
		Qop:       ch.Param("qop"),
		NC:        ch.Param("nc"),
		CNonce:    ch.Param("cnonce"),
		Algorithm: ch.Param("algorithm"),
	})
	if subtle.ConstantTimeCompare([]byte(expect), []byte(ch.Param("response"))) != 1 {
		return "", fmt.Errorf("digest response not match, u:%s", user)
	}
	return user, nil
}
