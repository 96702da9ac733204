package rain

import (
	"math"
	"math/rand"
)

// Fall speed is drawn per spawn from [spawnSpeedMin, spawnSpeedMax)
// rows/sec before the settings speed factor is applied.
const (
	spawnSpeedMin = 4.0
	spawnSpeedMax = 14.0
)

// maxWallStep clamps wall-clock deltas so a stalled display loop does
// not trigger a runaway catch-up burst.
const maxWallStep = 0.1

// completionBoost scales the completion-phase acceleration. It is
// sized so every column drains within a few seconds of the phase
// reaching full progress.
const completionBoost = 6.0

// Simulator owns the column set, the glyph alphabet, and all derived
// caches. It is not safe for concurrent mutation; Update and Draw must
// be externally serialized.
type Simulator struct {
	settings Settings
	seed     int64
	rng      *rand.Rand

	width, height int
	rows          int
	maxPositions  int
	columns       []Column

	alphabet []rune
	ramp     []Shade
	head     Shade
	glow     halo

	phase Phase
	frame uint64
}

// New builds a simulator with the given settings and seed. The seed
// fixes every subsequent random draw, making fixed-step runs
// reproducible. Returns ErrInvalidSettings for out-of-range settings.
func New(settings Settings, seed int64) (*Simulator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		settings: settings,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		alphabet: DefaultAlphabet(),
	}
	s.rebuildShading()
	return s, nil
}

// Settings returns the current snapshot.
func (s *Simulator) Settings() Settings { return s.settings }

// Seed returns the seed the simulator was built with.
func (s *Simulator) Seed() int64 { return s.seed }

// Phase returns the current transition phase.
func (s *Simulator) Phase() Phase { return s.phase }

// SetPhase sets the transition phase for subsequent updates and draws.
// The caller owns phase timing and sets progress each frame.
func (s *Simulator) SetPhase(p Phase) { s.phase = p }

// Size returns the current surface size in pixels.
func (s *Simulator) Size() (w, h int) { return s.width, s.height }

// Rows returns the visible row count at the current size.
func (s *Simulator) Rows() int { return s.rows }

// MaxPositions returns the number of horizontal column positions at
// the current size.
func (s *Simulator) MaxPositions() int { return s.maxPositions }

// Columns returns a read-only view of the live column slice. Callers
// must not mutate it; it is remade on resize.
func (s *Simulator) Columns() []Column { return s.columns }

// Resize sets the surface size, recomputes the cell grid, and rebuilds
// every column from scratch. Calling it with the current size is a
// no-op, so prior animation state survives spurious resize events.
func (s *Simulator) Resize(width, height int) {
	if width == s.width && height == s.height && s.columns != nil {
		return
	}
	s.width = width
	s.height = height
	s.rows = int(math.Ceil(float64(height) / s.settings.GlyphSize))
	s.maxPositions = int(math.Ceil(float64(width) / s.settings.GlyphSize))
	if s.rows < 0 {
		s.rows = 0
	}
	if s.maxPositions < 0 {
		s.maxPositions = 0
	}
	s.rebuildColumns()
}

// Reset rebuilds all columns at the current size, discarding animation
// state. Equivalent to a resize with the same size.
func (s *Simulator) Reset() {
	s.rebuildColumns()
}

// ApplySettings swaps in a new snapshot, rebuilding only the caches
// the diff invalidates: the column grid for glyph-size or density
// changes, the ramp and halo for anything affecting shading.
func (s *Simulator) ApplySettings(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	prev := s.settings
	s.settings = next
	if prev.rebuildRampFor(next) {
		s.rebuildShading()
	}
	if prev.rebuildColumnsFor(next) {
		s.rows = int(math.Ceil(float64(s.height) / next.GlyphSize))
		s.maxPositions = int(math.Ceil(float64(s.width) / next.GlyphSize))
		s.rebuildColumns()
	}
	return nil
}

// Update advances the simulation by a wall-clock delta, clamped to
// maxWallStep. It never fails; a zero or negative delta is ignored.
func (s *Simulator) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > maxWallStep {
		dt = maxWallStep
	}
	s.step(dt)
}

// UpdateFixed advances the simulation by an exact fixed delta with no
// clamping. The offline exporter uses this path so frame N is a pure
// function of (seed, settings, N).
func (s *Simulator) UpdateFixed(dt float64) {
	if dt <= 0 {
		return
	}
	s.step(dt)
}

func (s *Simulator) step(dt float64) {
	completing := s.phase.Kind == PhaseCompletion
	progress := s.phase.clampedProgress()

	for i := range s.columns {
		c := &s.columns[i]

		speed := c.Speed
		if completing && !c.drained(s.rows) {
			speed = s.completionSpeed(c, progress)
			c.Speed = speed
		}

		c.Accum += speed * dt
		if c.Accum >= 1 {
			steps := int(c.Accum)
			c.Accum -= float64(steps)
			s.advance(c, steps)
		}

		if c.drained(s.rows) && !s.phase.preventsRespawn() {
			s.respawn(c)
		}
	}
}

// completionSpeed adds a superlinear-in-progress boost on top of the
// spawn-time speed. The boost is additive in rows/sec, so naturally
// slower columns see the larger relative acceleration and nothing
// straggles at the loop cut.
func (s *Simulator) completionSpeed(c *Column, progress float64) float64 {
	boost := completionBoost * progress * progress * spawnSpeedMax * s.settings.SpeedFactor
	return c.BaseSpeed + boost
}

// advance moves the head forward and prepends freshly randomized
// glyphs, trimming overflow from the tail end.
func (s *Simulator) advance(c *Column, steps int) {
	c.HeadRow += steps
	if steps >= c.Length {
		for j := range c.Glyphs {
			c.Glyphs[j] = s.randGlyph()
		}
		return
	}
	copy(c.Glyphs[steps:], c.Glyphs)
	for j := 0; j < steps; j++ {
		c.Glyphs[j] = s.randGlyph()
	}
}

// rebuildColumns repopulates the column set for the current grid using
// the density algorithm: evenly strided columns below density 1, one
// per position plus randomized overlapping extras above it.
func (s *Simulator) rebuildColumns() {
	s.columns = s.columns[:0]
	if s.rows <= 0 || s.maxPositions <= 0 {
		return
	}

	density := s.settings.Density
	if density <= 1 {
		active := int(float64(s.maxPositions) * density)
		if active < 1 {
			active = 1
		}
		stride := float64(s.maxPositions) / float64(active)
		for i := 0; i < active; i++ {
			var c Column
			s.spawnAt(&c, int(float64(i)*stride))
			s.columns = append(s.columns, c)
		}
		return
	}

	extras := int(density - 1)
	fraction := density - 1 - float64(extras)
	for pos := 0; pos < s.maxPositions; pos++ {
		var base Column
		s.spawnAt(&base, pos)
		s.columns = append(s.columns, base)

		n := extras
		if s.rng.Float64() < fraction {
			n++
		}
		for k := 0; k < n; k++ {
			var c Column
			s.spawnOverlapAt(&c, pos, base.HeadRow)
			s.columns = append(s.columns, c)
		}
	}
}

// respawn reinitializes a drained column in place at its existing
// horizontal position.
func (s *Simulator) respawn(c *Column) {
	pos := int(c.X / s.settings.GlyphSize)
	if c.overlap {
		s.spawnOverlapAt(c, pos, s.baseHeadAt(pos))
		return
	}
	s.spawnAt(c, pos)
}

// baseHeadAt returns the current head row of the non-overlap column
// at a grid position, so overlap respawns stay offset from it.
func (s *Simulator) baseHeadAt(pos int) int {
	x := float64(pos) * s.settings.GlyphSize
	for i := range s.columns {
		c := &s.columns[i]
		if !c.overlap && c.X == x {
			return c.HeadRow
		}
	}
	return -(1 + s.rng.Intn(s.rows+1))
}

// spawnAt initializes a column at a horizontal grid position with
// fresh random length, speed, start row, and glyphs.
func (s *Simulator) spawnAt(c *Column, pos int) {
	length := s.spawnLength()
	s.initColumn(c, pos, -(1+s.rng.Intn(s.rows+1)), length, false)
}

// spawnOverlapAt places a density extra at least half its own length
// above the base column's head, so stacked streams at one position
// never run in lockstep. The head is kept above the visible area.
func (s *Simulator) spawnOverlapAt(c *Column, pos, baseHead int) {
	length := s.spawnLength()
	head := baseHead - (length/2 + s.rng.Intn(length+1))
	if head > -1 {
		head = -1
	}
	s.initColumn(c, pos, head, length, true)
}

func (s *Simulator) spawnLength() int {
	minLen := s.rows / 4
	if minLen < 6 {
		minLen = 6
	}
	maxLen := s.rows
	if maxLen < 8 {
		maxLen = 8
	}
	return minLen + s.rng.Intn(maxLen-minLen+1)
}

func (s *Simulator) initColumn(c *Column, pos, head, length int, overlap bool) {
	c.X = float64(pos) * s.settings.GlyphSize
	c.HeadRow = head
	c.Speed = (spawnSpeedMin + s.rng.Float64()*(spawnSpeedMax-spawnSpeedMin)) * s.settings.SpeedFactor
	c.BaseSpeed = c.Speed
	c.Length = length
	c.Accum = 0
	c.overlap = overlap

	if cap(c.Glyphs) >= length {
		c.Glyphs = c.Glyphs[:length]
	} else {
		c.Glyphs = make([]rune, length)
	}
	for i := range c.Glyphs {
		c.Glyphs[i] = s.randGlyph()
	}
}

func (s *Simulator) randGlyph() rune {
	return s.alphabet[s.rng.Intn(len(s.alphabet))]
}

func (s *Simulator) rebuildShading() {
	s.ramp = buildRamp(s.settings)
	s.head = headShade(s.settings)
	s.glow = buildHalo(s.settings)
}
