// Package redact removes or masks sensitive values before they enter a
// persisted trace.
//
// Two passes exist, and their asymmetry is part of the artifact contract:
//
//   - Deep walks objects and arrays recursively. It is applied to call
//     arguments and initial-state snapshots, where field names are available
//     to drive key-based rules (forbidden keys dropped, email/ip/phone keys
//     masked).
//   - Shallow inspects only scalar strings by pattern, without recursing.
//     It is applied to return values, state-change values, and check
//     expected/actual payloads.
//
// Every function in this package is total: any Value shape maps to a Value,
// and no input can produce an error. Instrumentation must never be able to
// fail the monitored execution.
package redact

import (
	"strings"

	"github.com/vigil-run/vigil/internal/payload"
)

// forbiddenKeys are matched as substrings of the lower-cased field name.
// Matching entries are dropped entirely, never masked.
var forbiddenKeys = []string{
	"password", "password_hash", "secret", "api_key", "apikey",
	"access_token", "accesstoken", "refresh_token", "refreshtoken",
	"private_key", "privatekey", "credit_card", "creditcard",
	"ssn", "social_security",
}

// isForbiddenKey reports whether a lower-cased key matches the forbidden list.
func isForbiddenKey(lower string) bool {
	for _, f := range forbiddenKeys {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// Deep recursively redacts objects and arrays.
//
// Object entries with a forbidden key are removed. Keys containing "email",
// "ip", or "phone" mask their string values; structured values under those
// keys recurse so forbidden keys inside them are still dropped. All other
// values recurse.
func Deep(v payload.Value) payload.Value {
	switch val := v.(type) {
	case payload.Object:
		out := make(payload.Object, len(val))
		for k, elem := range val {
			lower := strings.ToLower(k)
			switch {
			case isForbiddenKey(lower):
				continue
			case strings.Contains(lower, "email"):
				out[k] = maskString(elem, MaskEmail)
			case strings.Contains(lower, "ip") || lower == "ip_address":
				out[k] = maskString(elem, MaskIP)
			case strings.Contains(lower, "phone"):
				out[k] = maskString(elem, MaskPhone)
			default:
				out[k] = Deep(elem)
			}
		}
		return out
	case payload.Array:
		out := make(payload.Array, len(val))
		for i, elem := range val {
			out[i] = Deep(elem)
		}
		return out
	default:
		return Shallow(v)
	}
}

// DeepObject is Deep constrained to object payloads (call args, state
// snapshots). A nil input redacts to an empty object.
func DeepObject(obj payload.Object) payload.Object {
	if obj == nil {
		return payload.Object{}
	}
	return Deep(obj).(payload.Object)
}

// Shallow pattern-matches scalar strings only. A string containing both '@'
// and '.' is treated as an email; a string of exactly three '.' separators
// with all remaining characters ASCII digits is treated as an IPv4 address.
// Everything else, including nested objects and arrays, passes through
// unchanged.
func Shallow(v payload.Value) payload.Value {
	s, ok := v.(payload.String)
	if !ok {
		return v
	}
	return payload.String(String(string(s)))
}

// String is the whole-string redaction used for unstructured text such as
// stack traces.
func String(s string) string {
	if strings.Contains(s, "@") && strings.Contains(s, ".") {
		return MaskEmail(s)
	}
	if looksLikeIPv4(s) {
		return MaskIP(s)
	}
	return s
}

// maskString applies mask to string values. Anything else goes back through
// Deep: a structured value under a masked key must still have forbidden keys
// removed before it is stored.
func maskString(v payload.Value, mask func(string) string) payload.Value {
	if s, ok := v.(payload.String); ok {
		return payload.String(mask(string(s)))
	}
	return Deep(v)
}

// looksLikeIPv4 reports whether s has exactly three '.' separators with all
// remaining characters ASCII digits.
func looksLikeIPv4(s string) bool {
	if strings.Count(s, ".") != 3 {
		return false
	}
	for _, c := range s {
		if c != '.' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// MaskEmail keeps the first character of the local part and replaces up to
// three of the remaining local-part characters with '*'. The domain part is
// unchanged. A local part of length <= 1 becomes a single '*'; a string
// without '@' becomes the sentinel "***@***".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return "***@***"
	}
	local := email[:at]
	domain := email[at+1:]

	masked := "*"
	if len(local) > 1 {
		masked = local[:1] + strings.Repeat("*", min(len(local)-1, 3))
	}
	return masked + "@" + domain
}

// MaskIP keeps the first two octets of a 4-part address: "a.b.xxx.xxx".
// Anything else becomes "xxx.xxx.xxx.xxx".
func MaskIP(ip string) string {
	parts := strings.Split(ip, ".")
	if len(parts) == 4 {
		return parts[0] + "." + parts[1] + ".xxx.xxx"
	}
	return "xxx.xxx.xxx.xxx"
}

// MaskPhone keeps the last 4 characters and replaces the rest with '*',
// preserving total length. Strings of length <= 4 become "****".
func MaskPhone(phone string) string {
	if len(phone) > 4 {
		return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
	}
	return "****"
}
