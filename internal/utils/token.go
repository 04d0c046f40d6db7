package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// sessionTokenBytes is the number of random bytes drawn for each session
// token. 32 bytes gives 256 bits of entropy, well above the 128-bit
// guessing-infeasibility floor.
const sessionTokenBytes = 32

// SessionTokenLength is the length of the base64url-encoded token string.
const SessionTokenLength = 43 // ceil(32 * 8 / 6), unpadded

// GenerateSessionToken draws 32 bytes from the OS CSPRNG and returns them
// as an unpadded base64url string. The token is opaque: it carries no
// structure a client can parse.
//
// Returns an error only if the random read fails, which indicates a
// broken platform entropy source.
func GenerateSessionToken() (string, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("error reading from random source: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
