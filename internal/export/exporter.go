package export

import (
	"context"
	"fmt"

	"github.com/gogpu/gg/text"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
	"github.com/LaboratoryZero/matrixrain/internal/render"
)

// Options fixes everything an export run depends on. Two runs with the
// same options produce identical frame sequences.
type Options struct {
	Width      int
	Height     int
	FPS        int
	Duration   float64
	Seed       int64
	Transition string
	Settings   rain.Settings
	Font       *text.FontSource
}

// Exporter drives a private simulator through fixed steps and hands
// each rendered frame to a sink. It never shares state with a live
// preview, so an export can run alongside one.
type Exporter struct {
	opts     Options
	renderer *render.Renderer
	timeline *Timeline
}

func New(opts Options) (*Exporter, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid fps %d", opts.FPS)
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("invalid duration %g", opts.Duration)
	}
	timeline, err := NewTimeline(opts.Transition)
	if err != nil {
		return nil, err
	}
	sim, err := rain.New(opts.Settings, opts.Seed)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		opts:     opts,
		renderer: render.NewRenderer(sim, opts.Font, opts.Width, opts.Height),
		timeline: timeline,
	}, nil
}

// Simulator exposes the private simulator for read-only observation,
// such as metric collection between frames.
func (e *Exporter) Simulator() *rain.Simulator {
	return e.renderer.Simulator()
}

// FrameCount is the number of frames Run will produce.
func (e *Exporter) FrameCount() int {
	return int(e.opts.Duration * float64(e.opts.FPS))
}

// Run steps the simulation at exactly 1/fps per frame and writes every
// frame to sink. A failed write aborts without advancing further, so
// the sink sees a strict prefix of the sequence. The caller owns
// closing the sink and cleaning up partial output.
func (e *Exporter) Run(ctx context.Context, sink Sink, progress func(frame, total int)) error {
	total := e.FrameCount()
	dt := 1.0 / float64(e.opts.FPS)
	sim := e.renderer.Simulator()
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		t := float64(i) / float64(total)
		sim.SetPhase(e.timeline.At(t))
		sim.UpdateFixed(dt)
		if err := sink.WriteFrame(e.renderer.RenderFrame()); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return nil
}
