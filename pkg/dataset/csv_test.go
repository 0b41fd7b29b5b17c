package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/wkchan/rainripple/pkg/errors"
)

const pivotCSV = `date,Central,Sha Tin,Tai Po
2026-08-01,1.5,0.0,3.0
2026-08-02,0.5,2.5,
2026-08-03,NaN,0.0,1.0
`

const longCSV = `date,station,value
2026-08-01,Central,1.5
2026-08-01,Tai Po,3.0
2026-08-02,Central,0.5
2026-08-02,Sha Tin,2.5
2026-08-02,Sha Tin,1.0
`

func TestReadCSV_Pivot(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(pivotCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if got := tbl.NumDays(); got != 3 {
		t.Errorf("NumDays = %d, want 3", got)
	}
	if got := tbl.NumStations(); got != 3 {
		t.Errorf("NumStations = %d, want 3", got)
	}
	if got := tbl.Stations()[1]; got != "Sha Tin" {
		t.Errorf("Stations[1] = %q, want %q", got, "Sha Tin")
	}
	if got := tbl.Value(0, 2); got != 3.0 {
		t.Errorf("Value(0,2) = %v, want 3.0", got)
	}
}

func TestReadCSV_PivotCoercesMissing(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(pivotCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	// Empty trailing cell on 2026-08-02
	if got := tbl.Value(1, 2); got != 0 {
		t.Errorf("empty cell = %v, want 0", got)
	}
	// Literal NaN on 2026-08-03
	if got := tbl.Value(2, 0); got != 0 {
		t.Errorf("NaN cell = %v, want 0", got)
	}
}

func TestReadCSV_Long(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(longCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if got := tbl.NumDays(); got != 2 {
		t.Errorf("NumDays = %d, want 2", got)
	}
	// Stations keep first-appearance order: Central, Tai Po, Sha Tin
	want := []string{"Central", "Tai Po", "Sha Tin"}
	for i, st := range want {
		if tbl.Stations()[i] != st {
			t.Errorf("Stations[%d] = %q, want %q", i, tbl.Stations()[i], st)
		}
	}
	// Duplicate (2026-08-02, Sha Tin) rows sum to 3.5
	if got := tbl.Value(1, 2); got != 3.5 {
		t.Errorf("duplicate sum = %v, want 3.5", got)
	}
	// Absent (2026-08-01, Sha Tin) fills as 0
	if got := tbl.Value(0, 2); got != 0 {
		t.Errorf("absent cell = %v, want 0", got)
	}
}

func TestReadCSV_SortsByDate(t *testing.T) {
	input := "date,A\n2026-08-03,1\n2026-08-01,2\n2026-08-02,3\n"
	tbl, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	dates := tbl.Dates()
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("dates not ascending: %v before %v", dates[i-1], dates[i])
		}
	}
	if tbl.Value(0, 0) != 2 {
		t.Errorf("Value(0,0) = %v, want 2 (row for earliest date)", tbl.Value(0, 0))
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only", "date,A\n"},
		{"bad date", "date,A\nnot-a-date,1\n"},
		{"unnamed station", "date,,B\n2026-08-01,1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidCSV) {
				t.Errorf("error code = %q, want INVALID_CSV", errors.GetCode(err))
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2026-08-15", "2026-08-15"},
		{"20260815", "2026-08-15"},
		{"2026/08/15", "2026-08-15"},
		{"2026-08-15 23:00", "2026-08-15"},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.input)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.input, err)
			continue
		}
		if got := d.Format("2006-01-02"); got != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}

	if _, err := ParseDate("15-08-2026"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestDeltas(t *testing.T) {
	tbl := NewTable(
		[]time.Time{day("2026-08-01"), day("2026-08-02"), day("2026-08-03")},
		[]string{"A"},
		[][]float64{{2}, {5}, {1}},
	)
	deltas := tbl.Deltas()

	if deltas[0][0] != 0 {
		t.Errorf("first delta = %v, want 0", deltas[0][0])
	}
	if deltas[1][0] != 3 {
		t.Errorf("deltas[1] = %v, want 3", deltas[1][0])
	}
	if deltas[2][0] != 4 {
		t.Errorf("deltas[2] = %v, want 4 (absolute)", deltas[2][0])
	}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
