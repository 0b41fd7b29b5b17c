package dataset

import "time"

// Window selects the animation window: the trailing days rows that carry any
// non-zero rainfall, falling back to the raw tail when the whole table is dry.
// When fewer than days rows are available the selection is repeated cyclically
// and re-dated as consecutive days ending at today, so the result always has
// exactly days rows.
func (t *Table) Window(days int, today time.Time) *Table {
	if days <= 0 || t.NumDays() == 0 {
		return &Table{stations: t.stations}
	}

	// Prefer rows with any rain at all.
	var wet [][]float64
	var wetDates []time.Time
	for i := range t.values {
		if t.DayTotal(i) > 0 {
			wet = append(wet, t.values[i])
			wetDates = append(wetDates, t.dates[i])
		}
	}
	srcValues, srcDates := wet, wetDates
	if len(srcValues) == 0 {
		srcValues, srcDates = t.values, t.dates
	}

	// Trailing window.
	if len(srcValues) > days {
		srcValues = srcValues[len(srcValues)-days:]
		srcDates = srcDates[len(srcDates)-days:]
	}

	if len(srcValues) == days {
		return &Table{
			dates:    append([]time.Time(nil), srcDates...),
			stations: t.stations,
			values:   copyRows(srcValues),
		}
	}

	// Short of rows: cycle through what we have and synthesize consecutive
	// dates ending at today.
	today = today.Truncate(24 * time.Hour)
	dates := make([]time.Time, days)
	values := make([][]float64, days)
	for i := 0; i < days; i++ {
		src := srcValues[i%len(srcValues)]
		values[i] = append([]float64(nil), src...)
		dates[i] = today.AddDate(0, 0, -(days - 1 - i))
	}
	return &Table{dates: dates, stations: t.stations, values: values}
}

func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}
