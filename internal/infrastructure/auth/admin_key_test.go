package auth

import (
	"errors"
	"testing"

	"github.com/prodtrack/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHash(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAdminKeyVerifier(t *testing.T) {
	v, err := NewAdminKeyVerifier(config.AdminConfig{KeyHash: testHash(t, "planta-2026")}, false)
	require.NoError(t, err)
	assert.True(t, v.Configured())

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"matching key", "planta-2026", nil},
		{"missing key", "", ErrAdminKeyRequired},
		{"wrong key", "planta-2025", ErrAdminKeyInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.key)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestAdminKeyVerifier_Unset(t *testing.T) {
	strict, err := NewAdminKeyVerifier(config.AdminConfig{}, false)
	require.NoError(t, err)
	assert.False(t, strict.Configured())
	assert.ErrorIs(t, strict.Verify("anything"), ErrAdminKeyInvalid)

	lenient, err := NewAdminKeyVerifier(config.AdminConfig{}, true)
	require.NoError(t, err)
	assert.NoError(t, lenient.Verify(""))
}

func TestNewAdminKeyVerifier_RejectsPlainText(t *testing.T) {
	_, err := NewAdminKeyVerifier(config.AdminConfig{KeyHash: "secret"}, false)
	assert.Error(t, err)
}

func TestHashAdminKey(t *testing.T) {
	_, err := HashAdminKey("short")
	assert.Error(t, err)

	hash, err := HashAdminKey("planta-2026")
	require.NoError(t, err)
	v, err := NewAdminKeyVerifier(config.AdminConfig{KeyHash: hash}, false)
	require.NoError(t, err)
	assert.NoError(t, v.Verify("planta-2026"))
}
