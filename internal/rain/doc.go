// Package rain implements the digital-rain simulation: a column-based
// particle system of falling glyph streams with head/tail coloring,
// glow, fade, and scripted transition phases.
//
// The package defines the core types:
//
//   - [Column]: one vertical stream of glyphs with its own head, tail
//     buffer, and fall speed
//   - [Settings]: the visual parameter snapshot (glyph size, speed,
//     colors, glow, fade, density)
//   - [Simulator]: owns the column set and derived caches, and exposes
//     Resize, Update, Draw, and Reset
//   - [Phase]: the transition overlay state (corruption, error, reset,
//     completion) layered over normal rendering
//   - [Surface]: the minimal 2D drawing primitives the simulator needs
//
// # Example
//
//	sim, _ := rain.New(rain.DefaultSettings(), 42)
//	sim.Resize(1920, 1080)
//	sim.UpdateFixed(1.0 / 60)
//	sim.Draw(canvas)
//
// # Determinism
//
// All randomness flows through a seeded generator injected at
// construction. Two simulators built with the same seed and settings,
// fed the same sequence of UpdateFixed calls, hold identical column
// state; this is what makes offline export reproducible.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Update and Draw must be
// externally serialized; the exporter builds its own private instance
// rather than sharing the preview's.
package rain
