package auth

import (
	"testing"

	domainerrors "ptbook/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher()

	// Test valid strong password
	strongPassword := "StrongPhrase123!"
	hash, err := hasher.Hash(strongPassword)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, strongPassword, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(strongPassword, hash))
}

func TestBcryptHasher_HashWithWeakPassword(t *testing.T) {
	hasher := NewBcryptHasher()

	// Weak passwords should be rejected before hashing
	weakPasswords := []string{
		"123",          // Too short
		"password",     // Forbidden word
		"SECRETKEY123", // No lowercase
		"secretkey123", // No uppercase
		"SecretKeyABC", // No numbers
		"SecretKey123", // No special characters
	}

	for _, weakPassword := range weakPasswords {
		_, err := hasher.Hash(weakPassword)
		assert.Error(t, err, "Expected error for weak password: %s", weakPassword)
	}
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasher()
	password := "StrongPhrase123!"

	// Generate hash
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("WrongPhrase123!", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher()

	// Test valid passwords
	validPasswords := []string{
		"StrongPhrase123!",
		"MySecure@Code1",
		"Complex#Secret9",
		"Valid$Phrase2024",
	}

	for _, password := range validPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.NoError(t, err, "Expected no error for valid password: %s", password)
	}

	// Test invalid passwords with the specific policy violation
	testCases := []struct {
		password    string
		expectedErr error
	}{
		{"123", domainerrors.ErrPasswordTooShort},
		{"SECRETKEY123!", domainerrors.ErrPasswordMissingLowercase},
		{"secretkey123!", domainerrors.ErrPasswordMissingUppercase},
		{"SecretKeyABC!", domainerrors.ErrPasswordMissingNumber},
		{"SecretKey123", domainerrors.ErrPasswordMissingSpecial},
		{"MyPassword123!", domainerrors.ErrPasswordForbiddenWords},
		{"MyAdmin12345!", domainerrors.ErrPasswordForbiddenWords},
	}

	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		assert.ErrorIs(t, err, tc.expectedErr, "password: %s", tc.password)
	}
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasherWithCost(customCost)

	password := "StrongPhrase123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify the hash uses the correct cost
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_EdgeCases(t *testing.T) {
	hasher := NewBcryptHasher()

	// Empty password
	err := hasher.ValidatePasswordStrength("")
	assert.ErrorIs(t, err, domainerrors.ErrPasswordTooShort)

	// Unicode characters satisfy the letter classes
	err = hasher.ValidatePasswordStrength("Pässphräse123!")
	assert.NoError(t, err)

	// Only special characters fails the letter requirements
	err = hasher.ValidatePasswordStrength("!@#$%^&*()")
	assert.Error(t, err)
}
