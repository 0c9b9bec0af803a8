package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

type Scheme int

const (
	SchemeNone Scheme = iota
	SchemeBasic
	SchemeDigest
	SchemeUnsupported
)

func (s Scheme) String() string {
	switch s {
	case SchemeNone:
		return "None"
	case SchemeBasic:
		return "Basic"
	case SchemeDigest:
		return "Digest"
	default:
		return "Unsupported"
	}
}

func ParseScheme(name string) Scheme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return SchemeNone
	case BasicAuthName:
		return SchemeBasic
	case DigestAuthName:
		return SchemeDigest
	default:
		return SchemeUnsupported
	}
}

type UserQueryFunc func(ctx context.Context, user string) (string, bool, error)

func MapUserMatch(ud map[string]string) UserQueryFunc {
	return func(ctx context.Context, user string) (string, bool, error) {
		pwd, ok := ud[user]
		if !ok {
			return "", false, nil
		}
		return pwd, true, nil
	}
}

// VerifyOption carries what a server side verifier needs besides the request.
type VerifyOption struct {
	Realm      string
	UserQuery  UserQueryFunc
	NewNonce   func(ctx context.Context) string
	CheckNonce func(ctx context.Context, nonce string) bool
}

// IAuth is the server side of a scheme: it builds the WWW-Authenticate value
// and checks the Authorization header of a request.
type IAuth interface {
	Name() string
	Challenge(ctx context.Context, opt *VerifyOption) string
	Auth(ctx *gin.Context, opt *VerifyOption) (string, error)
}

var mp = make(map[string]IAuth)

func register(fn IAuth) {
	mp[fn.Name()] = fn
}

func Get(name string) (IAuth, bool) {
	a, ok := mp[strings.ToLower(name)]
	return a, ok
}

func AuthList() []IAuth {
	rs := make([]IAuth, 0, len(mp))
	for _, v := range mp {
		rs = append(rs, v)
	}
	return rs
}
