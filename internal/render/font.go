package render

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/gg/text"
)

// ErrNoFont indicates no usable font file was found.
var ErrNoFont = errors.New("render: no usable font found")

// fontCandidates are common monospace/CJK-capable font locations tried
// in order when no explicit path is configured.
var fontCandidates = []string{
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/System/Library/Fonts/Monaco.ttf",
	"/System/Library/Fonts/Menlo.ttc",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansMono-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"C:\\Windows\\Fonts\\msgothic.ttc",
	"C:\\Windows\\Fonts\\consola.ttf",
}

// LoadFont opens the font at path, or walks the candidate list when
// path is empty. The returned source backs every face size the canvas
// needs.
func LoadFont(path string) (*text.FontSource, error) {
	if path != "" {
		source, err := text.NewFontSourceFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("render: load font %s: %w", path, err)
		}
		return source, nil
	}
	for _, candidate := range fontCandidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		source, err := text.NewFontSourceFromFile(candidate)
		if err == nil {
			return source, nil
		}
	}
	return nil, ErrNoFont
}
