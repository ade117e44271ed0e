// Package privacy reduces family identifiers before they reach logs, traces
// or metrics.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
)

// MaskPostalCode keeps only the department prefix of a French postal code
// (e.g., "42100" -> "42***"). The commune cannot be recovered, while
// department-level aid stays diagnosable.
//
// Returns "unknown" for empty input and "invalid" for anything that is not
// five digits.
func MaskPostalCode(postalCode string) string {
	if postalCode == "" {
		return "unknown"
	}
	if len(postalCode) != 5 {
		return "invalid"
	}
	for _, r := range postalCode {
		if r < '0' || r > '9' {
			return "invalid"
		}
	}
	return postalCode[:2] + "***"
}

// HashSessionID shortens a family session ID to a stable, non-reversible
// token so logs and traces can be correlated without carrying the raw
// identifier. Empty input stays empty.
func HashSessionID(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(hash[:8])
}
