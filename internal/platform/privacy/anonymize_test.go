package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPostalCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Saint-Etienne", "42000", "42***"},
		{"Paris", "75011", "75***"},
		{"Corsica keeps its numeric prefix", "20000", "20***"},
		{"empty", "", "unknown"},
		{"too short", "4200", "invalid"},
		{"letters", "2A004", "invalid"},
		{"spaces", "42 00", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskPostalCode(tt.input))
		})
	}
}

func TestHashSessionID(t *testing.T) {
	assert.Empty(t, HashSessionID(""))
	assert.Len(t, HashSessionID("famille-42"), 16)
	assert.Equal(t, HashSessionID("famille-42"), HashSessionID("famille-42"))
	assert.NotEqual(t, HashSessionID("famille-42"), HashSessionID("famille-43"))
}
