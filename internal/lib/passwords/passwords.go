package passwords

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 32
	iterations = 210_000
	keyLen     = 32
)

// GenerateSalt returns a hex-encoded random salt stored next to the hash.
func GenerateSalt() (string, error) {
	const op = "passwords.GenerateSalt"

	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return hex.EncodeToString(buf), nil
}

// Hash derives the salted hash stored in the credentials table.
func Hash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLen, sha256.New)

	return hex.EncodeToString(key)
}

func Matches(password, salt, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(password, salt)), []byte(storedHash)) == 1
}
