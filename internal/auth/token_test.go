package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/models"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewTokenService("super-secret")
	userID := models.NewID()

	tok, err := s.Issue(userID, models.AccessAuth)
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.AccessAuth, claims.Access)
	assert.NotNil(t, claims.IssuedAt)
	assert.Nil(t, claims.ExpiresAt)
}

func TestIssue_SameInstantIsDeterministic(t *testing.T) {
	t.Parallel()

	s := NewTokenService("k")
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }

	a, err := s.Issue("u1", models.AccessAuth)
	require.NoError(t, err)
	b, err := s.Issue("u1", models.AccessAuth)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIssue_RequiresUserAndAccess(t *testing.T) {
	t.Parallel()

	s := NewTokenService("k")
	_, err := s.Issue("", models.AccessAuth)
	assert.Error(t, err)
	_, err = s.Issue("u1", "")
	assert.Error(t, err)
}

func TestVerify_TamperingAnyCharacterFails(t *testing.T) {
	t.Parallel()

	s := NewTokenService("secret")
	tok, err := s.Issue(models.NewID(), models.AccessAuth)
	require.NoError(t, err)

	for i := range tok {
		replacement := byte('A')
		if tok[i] == 'A' {
			replacement = 'B'
		}
		tampered := tok[:i] + string(replacement) + tok[i+1:]

		_, err := s.Verify(tampered)
		require.Errorf(t, err, "tampered position %d accepted", i)
		assert.True(t, errors.Is(err, common.ErrInvalidToken))
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService("right").Issue("u1", models.AccessAuth)
	require.NoError(t, err)

	_, err = NewTokenService("wrong").Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := NewTokenService("k")
	for _, tok := range []string{"", "not.a.jwt", "abc", strings.Repeat("x", 200)} {
		_, err := s.Verify(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken, tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{UserID: "u1", Access: models.AccessAuth}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenService("k").Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("k").Verify(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_MissingClaims(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenService("k").Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
