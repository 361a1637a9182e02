package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength  = 16
	keyLength   = 32
	timeCost    = 1
	memoryKB    = 64 * 1024
	parallelism = 4
)

// ErrCredentialFormat marks a stored hash/salt pair that cannot be decoded.
// This is a data-integrity fault, not a failed verification.
var ErrCredentialFormat = errors.New("malformed stored credential")

// Hash derives an argon2id hash of password keyed by a fresh random salt.
// Both values are returned base64-encoded; two calls with the same password
// produce different pairs.
func Hash(password string) (hash, salt string, err error) {
	raw := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", "", err
	}

	sum := argon2.IDKey([]byte(password), raw, timeCost, memoryKB, parallelism, keyLength)

	return base64.StdEncoding.EncodeToString(sum), base64.StdEncoding.EncodeToString(raw), nil
}

// Verify recomputes the hash with the stored salt and compares in constant
// time. An undecodable stored value yields ErrCredentialFormat.
func Verify(password, storedHash, storedSalt string) (bool, error) {
	salt, err := base64.StdEncoding.DecodeString(storedSalt)
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrCredentialFormat, err)
	}
	want, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false, fmt.Errorf("%w: hash: %v", ErrCredentialFormat, err)
	}

	got := argon2.IDKey([]byte(password), salt, timeCost, memoryKB, parallelism, keyLength)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
