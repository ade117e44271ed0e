package eligibility

import (
	"strings"
)

// UnknownDepartment is the department of a location that could not be derived.
const UnknownDepartment = 0

// Location is the geography derived from a postal code.
type Location struct {
	PostalCode string
	Department int
	Known      bool
}

// ParseLocation derives a Location from a French postal code.
// Anything other than exactly five ASCII digits yields an unknown location;
// this is never an error, location-gated programs simply do not match.
func ParseLocation(postalCode string) Location {
	code := strings.TrimSpace(postalCode)
	if !isPostalCode(code) {
		return Location{Department: UnknownDepartment}
	}
	return Location{
		PostalCode: code,
		Department: int(code[0]-'0')*10 + int(code[1]-'0'),
		Known:      true,
	}
}

func isPostalCode(code string) bool {
	if len(code) != 5 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
