package payload

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashCanonical computes a SHA-256 content hash of a Value with domain
// separation: SHA256(domain + 0x00 + canonicalJSON). The null byte prevents
// domain/data boundary ambiguity.
func HashCanonical(domain string, v Value) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
