package trace

import (
	"encoding/json"
	"fmt"

	"github.com/vigil-run/vigil/internal/payload"
)

// hashDomain is the domain-separation prefix for trace content hashes.
// Version suffix enables future algorithm migration.
const hashDomain = "vigil/trace/v1"

// ContentHash computes a SHA-256 hash of the trace's canonical JSON form.
// The archive stores it as an integrity column next to the artifact.
func (t *Trace) ContentHash() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("trace: hash marshal: %w", err)
	}
	v, err := payload.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("trace: hash decode: %w", err)
	}
	return payload.HashCanonical(hashDomain, v)
}
