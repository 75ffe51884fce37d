package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Hour)

	raw, issued, err := m.GenerateToken(42, "editor", TokenAccess)
	require.NoError(t, err)

	claims, err := m.Parse(raw, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "editor", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)

	_, err = claims.JTI()
	assert.NoError(t, err)
}

func TestTokenManager_TypeMismatch(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Hour)
	raw, _, err := m.GenerateToken(1, "user", TokenAccess)
	require.NoError(t, err)

	_, err = m.Parse(raw, TokenRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	raw, _, err := m.GenerateToken(1, "user", TokenAccess)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	raw, _, err := NewTokenManager("a", time.Minute, time.Hour).GenerateToken(1, "user", TokenRefresh)
	require.NoError(t, err)

	_, err = NewTokenManager("b", time.Minute, time.Hour).Parse(raw, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_UniqueJTI(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Hour)
	_, a, _ := m.GenerateToken(1, "user", TokenRefresh)
	_, b, _ := m.GenerateToken(1, "user", TokenRefresh)
	assert.NotEqual(t, a.ID, b.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), a.ExpiresAt.Time, 5*time.Second)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("S3cure-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("S3cure-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attrs    []string
		problems int
	}{
		{"ok", "Kilimanjaro-42", []string{"jane@example.com", "jane"}, 0},
		{"short", "Ab1!", nil, 1},
		{"numeric", "1234567890123", nil, 1},
		{"common", "password123", nil, 1},
		{"similar to username", "janedoe2024!", []string{"janedoe"}, 1},
		{"similar to email", "xjanedoex-99", []string{"janedoe@example.com"}, 1},
		{"short and numeric", "1234", nil, 2},
		{"too long for bcrypt", "Kilimanjaro-" + strings.Repeat("x", 70), nil, 1},
		{"72 bytes", strings.Repeat("Ab-", 24), nil, 0},
		{"multibyte over limit", strings.Repeat("пароль", 7), nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ValidatePassword(tt.password, tt.attrs...), tt.problems)
		})
	}
}
