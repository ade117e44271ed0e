package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeQuotientBands(t *testing.T) {
	bands := IncomeQuotientBands()
	require.NotEmpty(t, bands)
	assert.Equal(t, 0, bands[0].Min)
	assert.Nil(t, bands[len(bands)-1].Max)

	for i, b := range bands {
		if b.Max != nil {
			assert.Less(t, b.Representative, *b.Max, b.Label)
			require.Less(t, i+1, len(bands))
			assert.Equal(t, *b.Max, bands[i+1].Min, "bands must be contiguous")
		}
		assert.GreaterOrEqual(t, b.Representative, b.Min, b.Label)

		found, ok := BandFor(b.Representative)
		require.True(t, ok)
		assert.Equal(t, b.Label, found.Label)
	}

	*bands[0].Max = 1
	assert.Equal(t, 450, *IncomeQuotientBands()[0].Max, "callers get copies")
}

func TestRepresentativeValuesStayInTheirBracket(t *testing.T) {
	program, ok := DefaultCatalog().Program("caf-vacances")
	require.True(t, ok)

	for _, b := range IncomeQuotientBands() {
		if b.Max == nil {
			continue
		}
		atMin, okMin := program.Amount.Compute(euros("0"), qf(b.Min))
		atRep, okRep := program.Amount.Compute(euros("0"), qf(b.Representative))
		atTop, okTop := program.Amount.Compute(euros("0"), qf(*b.Max-1))
		assert.Equal(t, okMin, okRep, b.Label)
		assert.Equal(t, okRep, okTop, b.Label)
		assert.True(t, atMin.Equal(atRep) && atRep.Equal(atTop), b.Label)
	}
}
