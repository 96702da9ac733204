package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

// Sink receives rendered frames in order. Close finalizes the output;
// a sink is single-use.
type Sink interface {
	WriteFrame(img image.Image) error
	Close() error
}

const gifPaletteSize = 64

// GIFSink buffers paletted frames and encodes an animated GIF on
// Close. The palette is built from the configured colors so the
// quantization stays faithful to the ramp instead of a generic cube.
type GIFSink struct {
	path    string
	delay   int // per frame, hundredths of a second
	palette color.Palette
	frames  []*image.Paletted
	delays  []int
	closed  bool
}

func NewGIFSink(path string, fps int, settings rain.Settings) *GIFSink {
	if fps <= 0 {
		fps = 60
	}
	delay := 100 / fps
	if delay < 2 {
		delay = 2
	}
	return &GIFSink{
		path:    path,
		delay:   delay,
		palette: rampPalette(settings),
	}
}

// rampPalette spans background to tail to head, with white at the top
// for glow and flash pixels.
func rampPalette(s rain.Settings) color.Palette {
	pal := make(color.Palette, 0, gifPaletteSize)
	half := gifPaletteSize / 2
	for i := 0; i < half; i++ {
		t := float64(i) / float64(half-1)
		c := s.Background.BlendRgb(s.TailColor, t)
		r, g, b := c.RGB255()
		pal = append(pal, color.RGBA{r, g, b, 255})
	}
	for i := 0; i < half-1; i++ {
		t := float64(i) / float64(half-1)
		c := s.TailColor.BlendRgb(s.HeadColor, t)
		r, g, b := c.RGB255()
		pal = append(pal, color.RGBA{r, g, b, 255})
	}
	pal = append(pal, color.RGBA{255, 255, 255, 255})
	return pal
}

func (s *GIFSink) WriteFrame(img image.Image) error {
	if s.closed {
		return ErrSinkClosed
	}
	bounds := img.Bounds()
	frame := image.NewPaletted(bounds, s.palette)
	draw.FloydSteinberg.Draw(frame, bounds, img, bounds.Min)
	s.frames = append(s.frames, frame)
	s.delays = append(s.delays, s.delay)
	return nil
}

func (s *GIFSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	anim := gif.GIF{
		Image:     s.frames,
		Delay:     s.delays,
		LoopCount: 0,
	}
	return gif.EncodeAll(f, &anim)
}

// PNGSink writes each frame as a zero-padded numbered file in dir,
// ready for ffmpeg or similar assembly.
type PNGSink struct {
	dir    string
	next   int
	closed bool
}

func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGSink{dir: dir}, nil
}

func (s *PNGSink) WriteFrame(img image.Image) error {
	if s.closed {
		return ErrSinkClosed
	}
	path := filepath.Join(s.dir, fmt.Sprintf("frame-%06d.png", s.next))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.next++
	return nil
}

func (s *PNGSink) Close() error {
	s.closed = true
	return nil
}
