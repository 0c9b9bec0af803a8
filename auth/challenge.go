package auth

import (
	"fmt"
	"strings"
)

type Challenge struct {
	Name   string
	Params map[string]string
}

func (c *Challenge) Scheme() Scheme {
	return ParseScheme(c.Name)
}

func (c *Challenge) Param(key string) string {
	return c.Params[strings.ToLower(key)]
}

// ChallengeError is raised when the server answers 401, it keeps every
// challenge the server offered.
type ChallengeError struct {
	Status     int
	Challenges []*Challenge
}

func (e *ChallengeError) Error() string {
	names := make([]string, 0, len(e.Challenges))
	for _, ch := range e.Challenges {
		names = append(names, ch.Name)
	}
	return fmt.Sprintf("authorization required, status:%d, challenge:[%s]", e.Status, strings.Join(names, ","))
}

// Select returns the first Basic or Digest challenge. If none is usable the
// first challenge (maybe nil) is returned with ok=false.
func (e *ChallengeError) Select() (*Challenge, bool) {
	return SelectChallenge(e.Challenges)
}

func SelectChallenge(chs []*Challenge) (*Challenge, bool) {
	for _, ch := range chs {
		switch ch.Scheme() {
		case SchemeBasic, SchemeDigest:
			return ch, true
		}
	}
	if len(chs) == 0 {
		return nil, false
	}
	return chs[0], false
}

// ParseChallenges reads WWW-Authenticate values, each value may hold more
// than one challenge.
func ParseChallenges(values []string) []*Challenge {
	rs := make([]*Challenge, 0, len(values))
	for _, v := range values {
		rs = append(rs, parseChallengeList(v)...)
	}
	return rs
}

type headerParser struct {
	s   string
	pos int
}

func isHeaderSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == ',' || c == '=' || c == '"'
}

func (p *headerParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *headerParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *headerParser) skipSeparators() bool {
	comma := false
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ',':
			comma = true
		case ' ', '\t':
		default:
			return comma
		}
		p.pos++
	}
	return comma
}

func (p *headerParser) token() string {
	start := p.pos
	for p.pos < len(p.s) && !isHeaderSeparator(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *headerParser) quoted() string {
	p.pos++ // opening quote
	sb := strings.Builder{}
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		p.pos++
		if c == '\\' && p.pos < len(p.s) {
			sb.WriteByte(p.s[p.pos])
			p.pos++
			continue
		}
		if c == '"' {
			break
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func (p *headerParser) value() string {
	p.skipSpace()
	if p.peek() == '"' {
		return p.quoted()
	}
	return p.token()
}

func parseChallengeList(v string) []*Challenge {
	p := &headerParser{s: v}
	var rs []*Challenge
	var cur *Challenge
	fresh := false
	for {
		comma := p.skipSeparators()
		if p.pos >= len(p.s) {
			break
		}
		tok := p.token()
		if len(tok) == 0 {
			p.pos++
			continue
		}
		p.skipSpace()
		if cur != nil && p.peek() == '=' {
			p.pos++
			cur.Params[strings.ToLower(tok)] = p.value()
			fresh = false
			continue
		}
		if cur != nil && fresh && !comma {
			// token68 right after the scheme name, e.g. "Negotiate abc"
			fresh = false
			continue
		}
		cur = &Challenge{Name: tok, Params: make(map[string]string)}
		rs = append(rs, cur)
		fresh = true
	}
	return rs
}

// parseAuthorization reads a credentials header such as
// `Digest username="u", realm="r", ...` into a single Challenge-shaped value.
func parseAuthorization(v string) (*Challenge, bool) {
	chs := parseChallengeList(v)
	if len(chs) == 0 {
		return nil, false
	}
	return chs[0], true
}
