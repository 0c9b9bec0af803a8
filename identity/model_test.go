package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		req *Request
		out string
	}{
		{NewOpenIDRequest("alice"), "type=openid&identity=alice"},
		{NewOpenIDRequest("http://id.example.com/users/alice"), "type=openid&identity=http%3A%2F%2Fid.example.com%2Fusers%2Falice"},
		{NewNormalRequest("Test", "User"), "type=normal&firstname=Test&lastname=User"},
		{NewNormalRequest("Mary Ann", "O'Neil"), "type=normal&firstname=Mary+Ann&lastname=O%27Neil"},
	}
	for _, tst := range tests {
		q, err := BuildQuery(tst.req)
		assert.NoError(t, err)
		assert.Equal(t, tst.out, q)
	}
}

func TestBuildQueryInvalid(t *testing.T) {
	tests := []*Request{
		nil,
		{},
		{Type: TypeOpenID},
		{Type: TypeOpenID, Identity: "a", FirstName: "b"},
		{Type: TypeNormal, FirstName: "a"},
		{Type: TypeNormal, LastName: "b"},
		{Type: TypeNormal, FirstName: "a", LastName: "b", Identity: "c"},
		{Type: "ldap", Identity: "a"},
	}
	for _, req := range tests {
		_, err := BuildQuery(req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func TestResultFound(t *testing.T) {
	var nilRs *Result
	assert.False(t, nilRs.Found())
	assert.False(t, (&Result{}).Found())
	assert.False(t, (&Result{IdentityURL: "a"}).Found())
	assert.True(t, (&Result{IdentityURL: "a", WebDavURL: "b"}).Found())
}
