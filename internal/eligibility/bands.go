package eligibility

// IncomeBand is a human-readable income quotient range offered to families
// who do not know their exact quotient. Representative is the value submitted
// on their behalf.
type IncomeBand struct {
	Label          string
	Min            int
	Max            *int // exclusive; nil for the open top band
	Representative int
}

// Band edges line up with the bracket edges of the default catalog, so a
// representative value always lands in the same bracket as any real quotient
// of its band.
var incomeBands = []IncomeBand{
	{Label: "Moins de 450 €", Min: 0, Max: ceiling(450), Representative: 300},
	{Label: "De 450 à 699 €", Min: 450, Max: ceiling(700), Representative: 575},
	{Label: "De 700 à 899 €", Min: 700, Max: ceiling(900), Representative: 800},
	{Label: "De 900 à 1 199 €", Min: 900, Max: ceiling(1200), Representative: 1050},
	{Label: "1 200 € et plus", Min: 1200, Representative: 1500},
}

// IncomeQuotientBands returns a copy of the bands, lowest first.
func IncomeQuotientBands() []IncomeBand {
	out := make([]IncomeBand, len(incomeBands))
	for i, b := range incomeBands {
		out[i] = b
		if b.Max != nil {
			out[i].Max = ceiling(*b.Max)
		}
	}
	return out
}

// BandFor returns the band containing qf.
func BandFor(qf int) (IncomeBand, bool) {
	for _, b := range IncomeQuotientBands() {
		if qf >= b.Min && (b.Max == nil || qf < *b.Max) {
			return b, true
		}
	}
	return IncomeBand{}, false
}
