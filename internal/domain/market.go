package domain

// RawMarket is a single market object exactly as returned by the Gamma API,
// before any normalization. The API is not stable about which keys carry the
// title and the outcome labels, so the record stays a free-form mapping until
// normalization resolves it.
type RawMarket map[string]any

// Market is a normalized prediction market: a display title and the ordered
// outcome labels. Outcomes is never empty; normalization substitutes a
// placeholder pair when the raw record carries no outcome data at all.
type Market struct {
	Title    string
	Outcomes []string
}

// Binary reports whether the market has exactly two outcomes.
func (m Market) Binary() bool {
	return len(m.Outcomes) == 2
}

// ExportRow is one row of the data sheet: the market title and its first two
// outcome labels.
type ExportRow struct {
	Title   string
	OptionA string
	OptionB string
}
