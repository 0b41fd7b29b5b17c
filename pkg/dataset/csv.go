package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wkchan/rainripple/pkg/errors"
)

// ReadCSV parses rainfall observations from r, accepting both the pivot and
// the long layout. The layout is sniffed from the header row: a header whose
// fields are date/station/value (any order, any case) is treated as long
// format, anything else as a pivot table.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "malformed CSV")
	}
	if len(records) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidCSV, "need a header row and at least one data row")
	}

	if isLongHeader(records[0]) {
		return parseLong(records)
	}
	return parsePivot(records)
}

// isLongHeader reports whether the header matches the long-format triple.
func isLongHeader(header []string) bool {
	if len(header) != 3 {
		return false
	}
	seen := map[string]bool{}
	for _, h := range header {
		seen[strings.ToLower(strings.TrimSpace(h))] = true
	}
	return seen["date"] && seen["station"] && seen["value"]
}

// parsePivot reads a table whose first column is the date and whose remaining
// columns are stations.
func parsePivot(records [][]string) (*Table, error) {
	header := records[0]
	if len(header) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidCSV, "pivot table has no station columns")
	}

	stations := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidCSV, "pivot table has an unnamed station column")
		}
		stations = append(stations, name)
	}

	var dates []time.Time
	var values [][]float64
	for i, rec := range records[1:] {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue // blank line
		}
		d, err := ParseDate(rec[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "row %d: bad date %q", i+2, rec[0])
		}
		row := make([]float64, len(stations))
		for j := range stations {
			if j+1 < len(rec) {
				row[j] = coerceValue(rec[j+1])
			}
		}
		dates = append(dates, d)
		values = append(values, row)
	}
	if len(dates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCSV, "pivot table has no data rows")
	}

	sortByDate(dates, values)
	return &Table{dates: dates, stations: stations, values: values}, nil
}

// parseLong reads date,station,value triples and pivots them, summing
// duplicate (date, station) observations.
func parseLong(records [][]string) (*Table, error) {
	header := records[0]
	dateIdx, stationIdx, valueIdx := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateIdx = i
		case "station":
			stationIdx = i
		case "value":
			valueIdx = i
		}
	}

	type cell struct {
		date    time.Time
		station string
	}
	sums := map[cell]float64{}
	var stations []string
	stationSeen := map[string]bool{}
	var dates []time.Time
	dateSeen := map[time.Time]bool{}

	for i, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		d, err := ParseDate(rec[dateIdx])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "row %d: bad date %q", i+2, rec[dateIdx])
		}
		name := strings.TrimSpace(rec[stationIdx])
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidCSV, "row %d: empty station name", i+2)
		}
		if !stationSeen[name] {
			stationSeen[name] = true
			stations = append(stations, name)
		}
		if !dateSeen[d] {
			dateSeen[d] = true
			dates = append(dates, d)
		}
		sums[cell{d, name}] += coerceValue(rec[valueIdx])
	}
	if len(dates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCSV, "long table has no data rows")
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	values := make([][]float64, len(dates))
	for i, d := range dates {
		values[i] = make([]float64, len(stations))
		for j, st := range stations {
			values[i][j] = sums[cell{d, st}]
		}
	}
	return &Table{dates: dates, stations: stations, values: values}, nil
}

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{"2006-01-02", "20060102", "2006/01/02"}

// ParseDate parses a date cell, tolerating a trailing time component.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, s)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// coerceValue parses a rainfall cell. Empty, non-numeric, NaN and negative
// values all coerce to 0: they mean "no measurable rain", not an error.
func coerceValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sortByDate sorts parallel date/value slices by date ascending.
func sortByDate(dates []time.Time, values [][]float64) {
	idx := make([]int, len(dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dates[idx[a]].Before(dates[idx[b]]) })

	outDates := make([]time.Time, len(dates))
	outValues := make([][]float64, len(values))
	for i, j := range idx {
		outDates[i] = dates[j]
		outValues[i] = values[j]
	}
	copy(dates, outDates)
	copy(values, outValues)
}
