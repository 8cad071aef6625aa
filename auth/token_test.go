package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("super-secret"), time.Hour)

	tok, err := m.Issue(42)
	require.NoError(t, err)

	userID, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), -1*time.Second)

	tok, err := m.Issue(1)
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager([]byte("right-secret"), time.Hour)
	verifier := NewTokenManager([]byte("wrong-secret"), time.Hour)

	tok, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("k"), time.Hour)

	_, err := m.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), time.Hour)

	tok, err := m.Issue(9)
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	_, err = m.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
