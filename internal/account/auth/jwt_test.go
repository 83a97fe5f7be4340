package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := NewToken("acc-123", "user", "test-secret")
	require.NoError(t, err)

	claims, err := ParseToken(tok, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "acc-123", claims.AccountID)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := NewToken("acc-123", "user", "test-secret")
	require.NoError(t, err)

	_, err = ParseToken(tok, "other-secret")
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-jwt", "test-secret")
	assert.Error(t, err)
}
