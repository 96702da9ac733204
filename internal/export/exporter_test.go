package export

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

type memSink struct {
	frames int
	bounds image.Rectangle
	failAt int // fail the write at this 1-based frame, 0 disables
}

func (m *memSink) WriteFrame(img image.Image) error {
	m.frames++
	m.bounds = img.Bounds()
	if m.failAt > 0 && m.frames == m.failAt {
		return errors.New("disk full")
	}
	return nil
}

func (m *memSink) Close() error { return nil }

func testOptions() Options {
	return Options{
		Width:    180,
		Height:   180,
		FPS:      30,
		Duration: 1.0,
		Seed:     42,
		Settings: rain.DefaultSettings(),
	}
}

func TestExporterFrameCount(t *testing.T) {
	e, err := New(testOptions())
	if err != nil {
		t.Fatal(err)
	}
	sink := &memSink{}
	if err := e.Run(context.Background(), sink, nil); err != nil {
		t.Fatal(err)
	}
	if sink.frames != 30 {
		t.Errorf("expected 30 frames, got %d", sink.frames)
	}
	if sink.bounds.Dx() != 180 || sink.bounds.Dy() != 180 {
		t.Errorf("frame bounds = %v, want 180x180", sink.bounds)
	}
}

func TestExporterWriteFailureStops(t *testing.T) {
	e, err := New(testOptions())
	if err != nil {
		t.Fatal(err)
	}
	sink := &memSink{failAt: 5}
	err = e.Run(context.Background(), sink, nil)
	if err == nil {
		t.Fatal("expected write error")
	}
	if sink.frames != 5 {
		t.Errorf("expected run to stop at frame 5, got %d", sink.frames)
	}
}

func TestExporterCancel(t *testing.T) {
	e, err := New(testOptions())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &memSink{}
	if err := e.Run(ctx, sink, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sink.frames != 0 {
		t.Errorf("expected no frames after cancel, got %d", sink.frames)
	}
}

func TestExporterDeterministic(t *testing.T) {
	opts := testOptions()
	opts.Transition = TransitionGlitch

	run := func() []byte {
		e, err := New(opts)
		if err != nil {
			t.Fatal(err)
		}
		var last []byte
		sink := sinkFunc(func(img image.Image) error {
			rgba := img.(*image.RGBA)
			last = append(last[:0], rgba.Pix...)
			return nil
		})
		if err := e.Run(context.Background(), sink, nil); err != nil {
			t.Fatal(err)
		}
		out := make([]byte, len(last))
		copy(out, last)
		return out
	}

	a, b := run(), run()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("bad pixel buffers: %d vs %d bytes", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverge at pixel byte %d", i)
		}
	}
}

type sinkFunc func(image.Image) error

func (f sinkFunc) WriteFrame(img image.Image) error { return f(img) }
func (f sinkFunc) Close() error                     { return nil }

func TestExporterRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Options)
	}{
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"zero fps", func(o *Options) { o.FPS = 0 }},
		{"zero duration", func(o *Options) { o.Duration = 0 }},
		{"bad transition", func(o *Options) { o.Transition = "explode" }},
		{"bad settings", func(o *Options) { o.Settings.Density = 99 }},
	}
	for _, tt := range tests {
		opts := testOptions()
		tt.mod(&opts)
		if _, err := New(opts); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestTimelinePhases(t *testing.T) {
	tl, err := NewTimeline(TransitionGlitch)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		t    float64
		kind rain.PhaseKind
	}{
		{0.0, rain.PhaseNone},
		{0.39, rain.PhaseNone},
		{0.45, rain.PhaseCorruption},
		{0.65, rain.PhaseError},
		{0.95, rain.PhaseReset},
		{1.0, rain.PhaseReset},
		{1.5, rain.PhaseReset},
	}
	for _, tt := range tests {
		got := tl.At(tt.t)
		if got.Kind != tt.kind {
			t.Errorf("At(%g).Kind = %v, want %v", tt.t, got.Kind, tt.kind)
		}
		if got.Progress < 0 || got.Progress > 1 {
			t.Errorf("At(%g).Progress = %g out of range", tt.t, got.Progress)
		}
	}
}

func TestTimelineProgressRamps(t *testing.T) {
	tl, err := NewTimeline(TransitionDrain)
	if err != nil {
		t.Fatal(err)
	}
	early := tl.At(0.35)
	late := tl.At(0.95)
	if early.Kind != rain.PhaseCompletion || late.Kind != rain.PhaseCompletion {
		t.Fatal("expected completion segment")
	}
	if !(early.Progress < late.Progress) {
		t.Errorf("progress should ramp: %g then %g", early.Progress, late.Progress)
	}
}

func TestTimelineUnknown(t *testing.T) {
	if _, err := NewTimeline("wipe"); !errors.Is(err, ErrUnknownTransition) {
		t.Fatalf("expected ErrUnknownTransition, got %v", err)
	}
}

func TestGIFSinkEncodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	sink := NewGIFSink(path, 30, rain.DefaultSettings())

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 3; i++ {
		if err := sink.WriteFrame(img); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty gif")
	}
	if err := sink.WriteFrame(img); !errors.Is(err, ErrSinkClosed) {
		t.Errorf("expected ErrSinkClosed after Close, got %v", err)
	}
}

func TestPNGSinkNumbersFrames(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewPNGSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 2; i++ {
		if err := sink.WriteFrame(img); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"frame-000000.png", "frame-000001.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
