package stations

import (
	"testing"

	"github.com/wkchan/rainripple/pkg/errors"
)

func TestHashedPosition_Deterministic(t *testing.T) {
	x1, y1 := HashedPosition("Sha Tin")
	x2, y2 := HashedPosition("Sha Tin")
	if x1 != x2 || y1 != y2 {
		t.Error("HashedPosition should be deterministic")
	}

	x3, y3 := HashedPosition("Tai Po")
	if x1 == x3 && y1 == y3 {
		t.Error("different names should land on different positions")
	}
}

func TestHashedPosition_WithinMargins(t *testing.T) {
	names := []string{"Central & Western", "觀塘", "Sai Kung", "North", "Islands", ""}
	for _, name := range names {
		x, y := HashedPosition(name)
		if x < edgeMargin || x > 1-edgeMargin {
			t.Errorf("HashedPosition(%q) x = %v outside margins", name, x)
		}
		if y < edgeMargin || y > 1-edgeMargin {
			t.Errorf("HashedPosition(%q) y = %v outside margins", name, y)
		}
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r, err := ParseConfig([]byte(`
[[station]]
name = "Sha Tin"
x = 0.7
y = 0.55
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	got := r.Resolve([]string{"Sha Tin", "Tai Po"})

	if len(got) != 2 {
		t.Fatalf("Resolve returned %d stations, want 2", len(got))
	}
	if got[0].X != 0.7 || got[0].Y != 0.55 {
		t.Errorf("override position = (%v, %v), want (0.7, 0.55)", got[0].X, got[0].Y)
	}
	hx, hy := HashedPosition("Tai Po")
	if got[1].X != hx || got[1].Y != hy {
		t.Errorf("fallback position = (%v, %v), want hashed (%v, %v)", got[1].X, got[1].Y, hx, hy)
	}
	if !r.Overridden("Sha Tin") || r.Overridden("Tai Po") {
		t.Error("Overridden flags wrong")
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			"malformed toml",
			`[[station` + "\n",
			errors.ErrCodeInvalidInput,
		},
		{
			"empty name",
			"[[station]]\nname = \"\"\nx = 0.5\ny = 0.5\n",
			errors.ErrCodeInvalidStation,
		},
		{
			"position out of range",
			"[[station]]\nname = \"Sha Tin\"\nx = 1.5\ny = 0.5\n",
			errors.ErrCodeInvalidStation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}
}
