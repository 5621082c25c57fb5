// Package auth guards privileged actions with a shared admin key.
package auth

import (
	"errors"
	"strings"

	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Admin key errors
var (
	ErrAdminKeyRequired = shared.NewDomainError("ADMIN_KEY_REQUIRED", "Admin key is required for this action")
	ErrAdminKeyInvalid  = shared.NewDomainError("ADMIN_KEY_INVALID", "Admin key is invalid")
	ErrAdminKeyUnset    = shared.NewDomainError("ADMIN_KEY_INVALID", "Admin key is not configured")
)

// AdminKeyVerifier checks keys against a bcrypt hash
type AdminKeyVerifier struct {
	hash       []byte
	allowUnset bool
}

// NewAdminKeyVerifier creates a verifier from config. With no hash configured,
// every key is accepted when allowUnset is true and refused otherwise.
func NewAdminKeyVerifier(cfg config.AdminConfig, allowUnset bool) (*AdminKeyVerifier, error) {
	hash := strings.TrimSpace(cfg.KeyHash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, errors.New("admin.key_hash is not a bcrypt hash")
		}
	}
	return &AdminKeyVerifier{hash: []byte(hash), allowUnset: allowUnset}, nil
}

// Configured reports whether a key hash is set
func (v *AdminKeyVerifier) Configured() bool {
	return len(v.hash) > 0
}

// Verify returns nil when key matches
func (v *AdminKeyVerifier) Verify(key string) error {
	if !v.Configured() {
		if v.allowUnset {
			return nil
		}
		return ErrAdminKeyUnset
	}
	if key == "" {
		return ErrAdminKeyRequired
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(key)); err != nil {
		return ErrAdminKeyInvalid
	}
	return nil
}

// HashAdminKey produces the value for admin.key_hash
func HashAdminKey(key string) (string, error) {
	if len(key) < 8 {
		return "", errors.New("admin key must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
