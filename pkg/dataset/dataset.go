// Package dataset loads daily rainfall observations from CSV files.
//
// Two layouts are accepted:
//
//   - pivot: rows are dates, columns are stations, cells are rainfall in mm
//   - long: date,station,value triples, one observation per row
//
// Long input is pivoted on load by summing duplicate (date, station) pairs.
// Missing, empty and non-numeric cells load as 0 mm: absent data means no
// measurable rain, never a runtime fault.
package dataset

import (
	"math"
	"time"
)

// Table holds daily rainfall values for a set of stations.
// Rows are ordered by date ascending; columns keep the order in which the
// stations first appeared in the input.
type Table struct {
	dates    []time.Time
	stations []string
	values   [][]float64 // values[day][station]
}

// NewTable builds a table from parallel slices. The values matrix must be
// len(dates) rows of len(stations) columns.
func NewTable(dates []time.Time, stations []string, values [][]float64) *Table {
	return &Table{dates: dates, stations: stations, values: values}
}

// NumDays returns the number of date rows.
func (t *Table) NumDays() int { return len(t.dates) }

// NumStations returns the number of station columns.
func (t *Table) NumStations() int { return len(t.stations) }

// Dates returns the ordered date rows.
func (t *Table) Dates() []time.Time { return t.dates }

// Stations returns the ordered station columns.
func (t *Table) Stations() []string { return t.stations }

// Value returns the rainfall in mm for a day/station index pair.
func (t *Table) Value(day, station int) float64 { return t.values[day][station] }

// Row returns the rainfall values for one day, indexed by station column.
func (t *Table) Row(day int) []float64 { return t.values[day] }

// Max returns the largest value in the table, or 0 for an empty table.
func (t *Table) Max() float64 {
	max := 0.0
	for _, row := range t.values {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// StationTotal returns the summed rainfall for one station column.
func (t *Table) StationTotal(station int) float64 {
	total := 0.0
	for _, row := range t.values {
		total += row[station]
	}
	return total
}

// DayTotal returns the summed rainfall across all stations for one day.
func (t *Table) DayTotal(day int) float64 {
	total := 0.0
	for _, v := range t.values[day] {
		total += v
	}
	return total
}

// Deltas returns the absolute day-over-day change per station.
// The first row is all zeros since it has no predecessor.
func (t *Table) Deltas() [][]float64 {
	deltas := make([][]float64, len(t.values))
	for i := range t.values {
		deltas[i] = make([]float64, len(t.stations))
		if i == 0 {
			continue
		}
		for j := range t.stations {
			deltas[i][j] = math.Abs(t.values[i][j] - t.values[i-1][j])
		}
	}
	return deltas
}
