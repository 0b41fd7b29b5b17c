package render

import (
	"os"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/wkchan/rainripple/pkg/errors"
)

// FontSet holds the faces used on a frame, sized for one canvas resolution.
type FontSet struct {
	Title font.Face
	Date  font.Face
	Label font.Face
}

// Point sizes at the 900px reference resolution; scaled linearly with canvas
// size like the rest of the frame geometry.
const (
	titlePoints = 36
	datePoints  = 26

	// DefaultLabelPoints is the station label size for animation frames.
	DefaultLabelPoints = 14

	// PreviewLabelPoints is the larger label size used by the still preview,
	// where readability beats clutter.
	PreviewLabelPoints = 28
)

// fontCandidates are tried in order. The title is Chinese, so CJK-capable
// faces come first; DejaVu matches the original output for latin labels.
var fontCandidates = []string{
	"NotoSansCJK-Regular.ttf",
	"NotoSansCJKsc-Regular.otf",
	"NotoSansSC-Regular.ttf",
	"wqy-zenhei.ttf",
	"wqy-microhei.ttf",
	"DejaVuSans.ttf",
	"Arial Unicode.ttf",
}

// LoadFonts locates a usable TTF on the system and builds faces scaled for a
// size×size canvas. labelPoints selects the station label size at reference
// resolution (DefaultLabelPoints or PreviewLabelPoints).
func LoadFonts(size int, labelPoints float64) (*FontSet, error) {
	ft, err := findFont()
	if err != nil {
		return nil, err
	}

	scale := float64(size) / 900.0
	face := func(points float64) font.Face {
		return truetype.NewFace(ft, &truetype.Options{Size: points * scale})
	}
	return &FontSet{
		Title: face(titlePoints),
		Date:  face(datePoints),
		Label: face(labelPoints),
	}, nil
}

// findFont walks the candidate list and returns the first font that both
// exists and parses. findfont does fuzzy matching, so a close-but-wrong hit
// (e.g. a .ttc collection freetype cannot read) just moves on to the next
// candidate.
func findFont() (*truetype.Font, error) {
	var lastErr error
	for _, name := range fontCandidates {
		path, err := findfont.Find(name)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		ft, err := truetype.Parse(data)
		if err != nil {
			lastErr = err
			continue
		}
		return ft, nil
	}
	return nil, errors.Wrap(errors.ErrCodeFontNotFound, lastErr,
		"no usable TTF found (looked for %v)", fontCandidates)
}
