package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ParseToken(token)
	req.NoError(err)
	req.Equal("alice", claims.Username)
	req.Greater(claims.ExpiresAt, claims.IssuedAt)
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	req := require.New(t)

	_, err := ParseToken("")
	req.Error(err)

	_, err = ParseToken("not.a.token")
	req.Error(err)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice")
	req.NoError(err)

	// Flip a character in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	_, err = ParseToken(tampered)
	req.Error(err)
}
