package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a content hash of the artifact's canonical JSON
// encoding. Two artifacts with the same fingerprint describe the same
// deployment.
func (a *Artifact) Fingerprint() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return Checksum(data), nil
}
