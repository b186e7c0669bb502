package secrets

import (
	"crypto/rand"
	"encoding/hex"

	dErrors "nexuscomply/pkg/domain-errors"
)

// KeySize is the length in bytes of a session seal key.
const KeySize = 32

// GenerateKey creates a cryptographically secure seal key, hex-encoded the
// way NEXUS_SESSION_SEAL_KEY expects it.
func GenerateKey() (string, error) {
	buf := make([]byte, KeySize)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate key")
	}
	return hex.EncodeToString(buf), nil
}
