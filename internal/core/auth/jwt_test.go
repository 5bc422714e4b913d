package auth

import (
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("secret"), Issuer: "user-portal", TTL: time.Minute}
}

func TestJWTer_IssueAndParse(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("delete@sdf.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "delete@sdf.com", c.Subject)
	assert.Equal(t, "user-portal", c.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Minute), c.ExpiresAt.Time, 2*time.Second)
}

func TestJWTer_EmptySubject(t *testing.T) {
	_, err := newJWTer().Issue("")
	assert.Error(t, err)
}

func TestJWTer_ExpiredAtExp(t *testing.T) {
	j := newJWTer()
	tok, err := j.IssueWithTTL("x@sdf.com", -time.Second)
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTer_Leeway(t *testing.T) {
	j := newJWTer()
	j.Leeway = time.Minute

	tok, err := j.IssueWithTTL("x@sdf.com", -time.Second)
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.NoError(t, err)

	tok, err = j.IssueWithTTL("x@sdf.com", -2*time.Minute)
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTer_Invalid(t *testing.T) {
	j := newJWTer()
	good, err := j.Issue("x@sdf.com")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other"), Issuer: "user-portal", TTL: time.Minute}
	foreign, err := other.Issue("x@sdf.com")
	require.NoError(t, err)

	wrongIssuer := &JWTer{Secret: []byte("secret"), Issuer: "someone-else", TTL: time.Minute}
	misissued, err := wrongIssuer.Issue("x@sdf.com")
	require.NoError(t, err)

	none := gjwt.NewWithClaims(gjwt.SigningMethodNone, gjwt.MapClaims{
		"sub": "x@sdf.com",
		"iss": "user-portal",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	unsigned, err := none.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSub := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{
		"iss": "user-portal",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	noSubject, err := noSub.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"tampered":     good + "a",
		"wrong secret": foreign,
		"wrong issuer": misissued,
		"alg none":     unsigned,
		"no subject":   noSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := j.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
