package rain

// Column is one falling stream of glyphs. Columns are reinitialized in
// place on respawn rather than reallocated, so a simulation at steady
// state allocates nothing per frame.
type Column struct {
	// X is the horizontal pixel position, fixed for the column's
	// lifetime at a given size.
	X float64

	// HeadRow is the row index of the brightest glyph. Negative while
	// the column is still above the visible area; it may exceed the row
	// count while the tail drains off the bottom. Strictly
	// non-decreasing between respawns.
	HeadRow int

	// Speed is the current fall rate in rows per second; BaseSpeed is
	// the rate drawn at spawn, kept so completion-phase acceleration
	// has a stable reference.
	Speed     float64
	BaseSpeed float64

	// Length is the tail size in glyphs. len(Glyphs) == Length always.
	Length int

	// Glyphs holds the tail buffer, index 0 = head, higher indices
	// further back up the tail.
	Glyphs []rune

	// Accum carries fractional row progress between updates.
	Accum float64

	// overlap marks columns spawned as density>1 extras; respawn keeps
	// honoring the desynchronized start offset for them.
	overlap bool
}

// visibleRange returns the rows of the tail that intersect [0, rows).
func (c *Column) visibleRange(rows int) (lo, hi int, ok bool) {
	lo = c.HeadRow - c.Length + 1
	hi = c.HeadRow
	if lo < 0 {
		lo = 0
	}
	if hi > rows-1 {
		hi = rows - 1
	}
	return lo, hi, lo <= hi
}

// Visible reports whether any part of the tail is on screen.
func (c *Column) Visible(rows int) bool {
	_, _, ok := c.visibleRange(rows)
	return ok
}

// drained reports whether the tail has fully exited below the visible
// area.
func (c *Column) drained(rows int) bool {
	return c.HeadRow-c.Length > rows
}
