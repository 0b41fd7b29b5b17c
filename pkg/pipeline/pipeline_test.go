package pipeline

import (
	"testing"

	"github.com/wkchan/rainripple/pkg/errors"
)

func TestOptions_SetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Size != DefaultSize {
		t.Errorf("Size = %d, want %d", opts.Size, DefaultSize)
	}
	if opts.Days != DefaultDays {
		t.Errorf("Days = %d, want %d", opts.Days, DefaultDays)
	}
	if opts.FramesPerDay != DefaultFramesPerDay {
		t.Errorf("FramesPerDay = %d, want %d", opts.FramesPerDay, DefaultFramesPerDay)
	}
	if opts.FPS != DefaultFPS {
		t.Errorf("FPS = %d, want %d", opts.FPS, DefaultFPS)
	}
	if opts.Gamma != DefaultGamma {
		t.Errorf("Gamma = %g, want %g", opts.Gamma, DefaultGamma)
	}
	if opts.Amp != DefaultAmp {
		t.Errorf("Amp = %g, want %g", opts.Amp, DefaultAmp)
	}
	if opts.MaxLabels != DefaultMaxLabels {
		t.Errorf("MaxLabels = %d, want %d", opts.MaxLabels, DefaultMaxLabels)
	}
	if opts.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", opts.Title, DefaultTitle)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "gif" {
		t.Errorf("Formats = %v, want [gif]", opts.Formats)
	}
	if opts.Today.IsZero() {
		t.Error("Today should default to now")
	}
}

func TestOptions_SetDefaults_Disabled(t *testing.T) {
	opts := Options{NoLabels: true, NoTitle: true}
	opts.SetDefaults()

	if opts.MaxLabels != 0 {
		t.Errorf("NoLabels should keep MaxLabels at 0, got %d", opts.MaxLabels)
	}
	if opts.Title != "" {
		t.Errorf("NoTitle should keep Title empty, got %q", opts.Title)
	}
}

func TestOptions_SetDefaults_KeepsExplicit(t *testing.T) {
	opts := Options{Size: 800, FPS: 12, MaxLabels: 10, Title: "雨", Formats: []string{"mp4"}}
	opts.SetDefaults()

	if opts.Size != 800 || opts.FPS != 12 {
		t.Error("SetDefaults should not override explicit values")
	}
	if opts.MaxLabels != 10 || opts.Title != "雨" {
		t.Error("SetDefaults should not override explicit label/title values")
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "mp4" {
		t.Errorf("Formats = %v, want [mp4]", opts.Formats)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		code   errors.Code
	}{
		{"tiny size", func(o *Options) { o.Size = 8 }, errors.ErrCodeInvalidOptions},
		{"zero days", func(o *Options) { o.Days = -1 }, errors.ErrCodeInvalidOptions},
		{"bad fps", func(o *Options) { o.FPS = 200 }, errors.ErrCodeInvalidOptions},
		{"negative gamma", func(o *Options) { o.Gamma = -1 }, errors.ErrCodeInvalidOptions},
		{"negative amp", func(o *Options) { o.Amp = -1 }, errors.ErrCodeInvalidOptions},
		{"negative labels", func(o *Options) { o.MaxLabels = -1 }, errors.ErrCodeInvalidOptions},
		{"bad format", func(o *Options) { o.Formats = []string{"avi"} }, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			opts.SetDefaults()
			tt.mutate(&opts)

			err := opts.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}

	var ok Options
	ok.SetDefaults()
	if err := ok.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestOptions_FrameCount(t *testing.T) {
	opts := Options{Days: 30, FramesPerDay: 6}
	if got := opts.FrameCount(); got != 180 {
		t.Errorf("FrameCount = %d, want 180", got)
	}
}

func TestOptions_Fingerprint(t *testing.T) {
	a := Options{Size: 1600, Days: 30, FramesPerDay: 6, FPS: 8, Gamma: 1.5, Amp: 6, MaxLabels: 40}
	b := a

	if a.fingerprint("") != b.fingerprint("") {
		t.Error("identical options should fingerprint identically")
	}

	b.Gamma = 1.8
	if a.fingerprint("") == b.fingerprint("") {
		t.Error("changed options should change the fingerprint")
	}

	// Formats do not contribute; each format keys its own cache entry.
	c := a
	c.Formats = []string{"mp4", "webm"}
	if a.fingerprint("") != c.fingerprint("") {
		t.Error("formats should not contribute to the fingerprint")
	}

	// Station table bytes do.
	if a.fingerprint("abc") == a.fingerprint("def") {
		t.Error("station config hash should contribute to the fingerprint")
	}
}
