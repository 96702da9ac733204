package rain

// FallbackGlyph replaces any glyph the font cannot shape.
const FallbackGlyph = '0'

// DefaultAlphabet returns the glyph code set columns draw from:
// halfwidth katakana (U+FF66..U+FF9D) plus the ASCII digits.
func DefaultAlphabet() []rune {
	out := make([]rune, 0, 66)
	for r := rune(0xFF66); r <= 0xFF9D; r++ {
		out = append(out, r)
	}
	for r := '0'; r <= '9'; r++ {
		out = append(out, r)
	}
	return out
}
