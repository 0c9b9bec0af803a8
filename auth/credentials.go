package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Credentials is the client side auth state of one session. Username is the
// identity url, it usually contains ':' which basic auth can not escape, the
// server side verifier splits on the last ':' for that reason.
type Credentials struct {
	Username  string
	Password  string
	Scheme    Scheme
	Realm     string
	Qop       string
	Nonce     string
	Opaque    string
	Algorithm string
	nc        uint32
}

func NewCredentials(username string) *Credentials {
	return &Credentials{Username: username}
}

// Reset drops the armed scheme and password, username is kept.
func (c *Credentials) Reset() {
	*c = Credentials{Username: c.Username}
}

func (c *Credentials) ArmBasic(password string) {
	c.Reset()
	c.Password = password
	c.Scheme = SchemeBasic
}

func (c *Credentials) ArmDigest(password string, ch *Challenge) error {
	if ch == nil || ch.Scheme() != SchemeDigest {
		return fmt.Errorf("not a digest challenge")
	}
	info, err := parseDigestInfo(ch)
	if err != nil {
		return err
	}
	c.Reset()
	c.Password = password
	c.Scheme = SchemeDigest
	c.Realm = info.Realm
	c.Qop = info.Qop
	c.Nonce = info.Nonce
	c.Opaque = info.Opaque
	c.Algorithm = info.Algorithm
	return nil
}

// Arm picks the arming method by the challenge scheme.
func (c *Credentials) Arm(password string, ch *Challenge) error {
	switch ch.Scheme() {
	case SchemeBasic:
		c.ArmBasic(password)
		return nil
	case SchemeDigest:
		return c.ArmDigest(password, ch)
	default:
		return fmt.Errorf("unsupported auth scheme:%s", ch.Name)
	}
}

func (c *Credentials) String() string {
	return fmt.Sprintf("{user:%s, scheme:%s, realm:%s}", c.Username, c.Scheme, c.Realm)
}

func (c *Credentials) Authorize(req *http.Request) error {
	switch c.Scheme {
	case SchemeNone:
		return nil
	case SchemeBasic:
		raw := c.Username + ":" + c.Password
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(raw)))
		return nil
	case SchemeDigest:
		req.Header.Set("Authorization", c.digestHeader(req))
		return nil
	default:
		return fmt.Errorf("unsupported auth scheme:%s", c.Scheme)
	}
}

func (c *Credentials) digestHeader(req *http.Request) string {
	c.nc++
	p := &DigestParams{
		Username:  c.Username,
		Realm:     c.Realm,
		Password:  c.Password,
		Method:    req.Method,
		URI:       req.URL.RequestURI(),
		Nonce:     c.Nonce,
		Qop:       c.Qop,
		NC:        fmt.Sprintf("%08x", c.nc),
		CNonce:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		Algorithm: c.Algorithm,
	}
	fields := []string{
		fmt.Sprintf(`username="%s"`, escapeQuoted(p.Username)),
		fmt.Sprintf(`realm="%s"`, escapeQuoted(p.Realm)),
		fmt.Sprintf(`nonce="%s"`, escapeQuoted(p.Nonce)),
		fmt.Sprintf(`uri="%s"`, escapeQuoted(p.URI)),
		fmt.Sprintf(`response="%s"`, DigestResponse(p)),
	}
	if len(p.Algorithm) != 0 {
		fields = append(fields, "algorithm="+p.Algorithm)
	}
	if len(c.Opaque) != 0 {
		fields = append(fields, fmt.Sprintf(`opaque="%s"`, escapeQuoted(c.Opaque)))
	}
	if len(p.Qop) != 0 {
		fields = append(fields, "qop="+p.Qop, "nc="+p.NC, fmt.Sprintf(`cnonce="%s"`, p.CNonce))
	}
	return "Digest " + strings.Join(fields, ", ")
}

func escapeQuoted(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
