package export

import "github.com/alanyoungcy/polysheet/internal/domain"

// BuildRows normalizes each raw market and flattens the survivors into
// export rows. When includeMulti is false only binary markets (exactly two
// outcomes) are kept; when true, markets with more outcomes are kept and
// truncated to their first two labels. Input order is preserved; the
// workbook writer sorts.
func BuildRows(markets []domain.RawMarket, includeMulti bool) []domain.ExportRow {
	rows := make([]domain.ExportRow, 0, len(markets))
	for _, raw := range markets {
		m := Normalize(raw)
		if len(m.Outcomes) == 0 {
			// Cannot happen: Normalize always yields at least the
			// placeholder pair. Checked anyway.
			continue
		}
		if !includeMulti && !m.Binary() {
			continue
		}

		row := domain.ExportRow{
			Title:   m.Title,
			OptionA: PlaceholderOutcome,
			OptionB: PlaceholderOutcome,
		}
		if len(m.Outcomes) >= 1 {
			row.OptionA = m.Outcomes[0]
		}
		if len(m.Outcomes) >= 2 {
			row.OptionB = m.Outcomes[1]
		}
		rows = append(rows, row)
	}
	return rows
}
