package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		code       string
		known      bool
		department int
	}{
		{"42000", true, 42},
		{" 42100 ", true, 42},
		{"01000", true, 1},
		{"97411", true, 97},
		{"4200", false, UnknownDepartment},
		{"420000", false, UnknownDepartment},
		{"42 00", false, UnknownDepartment},
		{"2A004", false, UnknownDepartment},
		{"", false, UnknownDepartment},
	}
	for _, tt := range tests {
		loc := ParseLocation(tt.code)
		assert.Equal(t, tt.known, loc.Known, "code %q", tt.code)
		assert.Equal(t, tt.department, loc.Department, "code %q", tt.code)
	}
}
