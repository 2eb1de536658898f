// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateContractNumber produces a human-readable contract reference,
// e.g. CB-2026-4F7A2C9B. Uniqueness is enforced by the database, not here.
func GenerateContractNumber() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("CB-%d-%s", time.Now().UTC().Year(), hex.EncodeToString(b)), nil
}

// HashString returns the hex SHA-256 of the input. Used to fingerprint
// rendered contract documents so re-renders can be detected.
func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

func ValidateDocumentHash(document []byte, expectedHash string) bool {
	hasher := sha256.New()
	hasher.Write(document)
	actualHash := hex.EncodeToString(hasher.Sum(nil))
	return actualHash == expectedHash
}
