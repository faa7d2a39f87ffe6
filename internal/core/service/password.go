package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// legacyDigestLen is the length of the unsalted hex SHA-256 digests written by
// earlier versions of the users file.
const legacyDigestLen = sha256.Size * 2

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword compares password with stored. legacy is true when stored is an
// old SHA-256 digest that should be re-hashed after a successful match.
func verifyPassword(stored, password string) (ok, legacy bool) {
	if isLegacyDigest(stored) {
		sum := sha256.Sum256([]byte(password))
		want := strings.ToLower(stored)
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(want)) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
}

func isLegacyDigest(s string) bool {
	if len(s) != legacyDigestLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
