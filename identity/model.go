package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type IdentityType string

const (
	TypeOpenID IdentityType = "openid"
	TypeNormal IdentityType = "normal"
)

const (
	HeaderIdentity        = "CableBeach-Identity"
	HeaderWebDavInventory = "CableBeach-WebDavInventory"
	LookupPath            = "/services/webdav"
)

var (
	ErrInvalidRequest = errors.New("invalid identity request")
	ErrConnection     = errors.New("identity connection error")
)

// Request is a single identity lookup. OpenID requests carry Identity,
// normal requests carry FirstName and LastName, never both.
type Request struct {
	Type      IdentityType
	Identity  string
	FirstName string
	LastName  string
}

func NewOpenIDRequest(identity string) *Request {
	return &Request{Type: TypeOpenID, Identity: identity}
}

func NewNormalRequest(firstName, lastName string) *Request {
	return &Request{Type: TypeNormal, FirstName: firstName, LastName: lastName}
}

func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	switch r.Type {
	case TypeOpenID:
		if len(r.Identity) == 0 || len(r.FirstName) != 0 || len(r.LastName) != 0 {
			return fmt.Errorf("%w: openid request needs identity only", ErrInvalidRequest)
		}
	case TypeNormal:
		if len(r.FirstName) == 0 || len(r.LastName) == 0 || len(r.Identity) != 0 {
			return fmt.Errorf("%w: normal request needs firstname and lastname only", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown identity type:%s", ErrInvalidRequest, r.Type)
	}
	return nil
}

// BuildQuery keeps the parameter order fixed (type first), so url.Values is
// not used here.
func BuildQuery(r *Request) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	sb := strings.Builder{}
	sb.WriteString("type=")
	sb.WriteString(url.QueryEscape(string(r.Type)))
	if r.Type == TypeOpenID {
		sb.WriteString("&identity=")
		sb.WriteString(url.QueryEscape(r.Identity))
		return sb.String(), nil
	}
	sb.WriteString("&firstname=")
	sb.WriteString(url.QueryEscape(r.FirstName))
	sb.WriteString("&lastname=")
	sb.WriteString(url.QueryEscape(r.LastName))
	return sb.String(), nil
}

// Result holds the two urls returned by the directory. Empty means absent.
type Result struct {
	IdentityURL string `json:"identity_url"`
	WebDavURL   string `json:"webdav_url"`
}

func (r *Result) Found() bool {
	return r != nil && len(r.IdentityURL) != 0 && len(r.WebDavURL) != 0
}
