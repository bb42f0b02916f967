package pipeline

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ByLCY/captionclip/binding"
	"github.com/ByLCY/captionclip/config"
	"github.com/ByLCY/captionclip/layout"
	"github.com/ByLCY/captionclip/media"
	"github.com/ByLCY/captionclip/renderer"
	canvasrenderer "github.com/ByLCY/captionclip/renderer/canvas"
	rasterrenderer "github.com/ByLCY/captionclip/renderer/raster"
)

// ErrNoImages is returned when the image directory holds no usable image.
var ErrNoImages = errors.New("no image files found")

// Muxer attaches audio to the silent clip.
type Muxer interface {
	Mux(videoPath, audioPath, outPath string) (media.LoopPlan, error)
}

// Pipeline runs one clip generation. New fills every field from Config.
type Pipeline struct {
	Config   *config.Config
	Logger   *zap.Logger
	Rand     *rand.Rand
	Renderer renderer.Renderer
	Emitter  media.Emitter
	Muxer    Muxer
	Now      func() time.Time

	// Image and Quote skip random selection when set.
	Image string
	Quote string
}

// Result summarizes a finished run.
type Result struct {
	Image     string            `json:"image"`
	Quote     string            `json:"quote"`
	Placement *layout.Placement `json:"placement"`
	Frames    int               `json:"frames"`
	Silent    string            `json:"silent"`
	Output    string            `json:"output"`
	Loop      media.LoopPlan    `json:"loop"`
}

// New wires the renderer, emitter and muxer chosen by cfg.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r, err := NewRenderer(cfg.Engine, cfg.FontPath)
	if err != nil {
		return nil, err
	}
	e, err := NewEmitter(cfg.Emitter)
	if err != nil {
		return nil, err
	}
	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Pipeline{
		Config:   cfg,
		Logger:   logger,
		Rand:     media.NewRand(seed),
		Renderer: r,
		Emitter:  e,
		Muxer:    media.NewMuxer(cfg.Video.TargetDuration, logger.Named("mux")),
		Now:      time.Now,
	}, nil
}

// NewRenderer returns the engine named by engine.
func NewRenderer(engine, fontPath string) (renderer.Renderer, error) {
	switch engine {
	case config.EngineRaster, "":
		return rasterrenderer.NewRenderer(fontPath), nil
	case config.EngineCanvas:
		return canvasrenderer.NewRenderer(fontPath), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}

// NewEmitter returns the silent video writer named by name.
func NewEmitter(name string) (media.Emitter, error) {
	switch name {
	case config.EmitterMJPEG, "":
		return media.MJPEGEmitter{}, nil
	case config.EmitterFFmpeg:
		return media.FFmpegEmitter{}, nil
	default:
		return nil, fmt.Errorf("unknown emitter %q", name)
	}
}

// Run selects an image and a quote, then calls RunWith. Nothing is written
// when selection fails.
func (p *Pipeline) Run() (*Result, error) {
	imagePath, quote := p.Image, p.Quote
	var err error
	if imagePath == "" {
		if imagePath, err = p.SelectImage(); err != nil {
			return nil, err
		}
	}
	if quote == "" {
		if quote, err = p.SelectQuote(); err != nil {
			return nil, err
		}
	}
	return p.RunWith(imagePath, quote)
}

// RunWith produces the silent clip and the final clip for a given image and
// quote. Placeholders in quote are resolved against the run data.
func (p *Pipeline) RunWith(imagePath, quote string) (*Result, error) {
	log := p.logger()
	cfg := p.Config

	img, err := media.LoadImage(imagePath)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	quote = binding.Interpolate(quote, binding.RunData(imagePath, b.Dx(), b.Dy(), p.now()))
	if left := binding.Placeholders(quote); len(left) > 0 {
		log.Warn("unresolved placeholders", zap.Strings("placeholders", left))
	}
	log.Info("selected", zap.String("image", imagePath), zap.String("quote", quote),
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))

	frame, placement, err := p.ComposeFrame(img, quote)
	if err != nil {
		return nil, err
	}
	if err := makeOutputDirs(cfg.SilentOutput, cfg.FinalOutput, cfg.DebugLayout); err != nil {
		return nil, err
	}
	if cfg.DebugLayout != "" {
		if err := layout.WriteDebugJSON(placement, cfg.DebugLayout); err != nil {
			return nil, fmt.Errorf("write layout debug: %w", err)
		}
	}

	frames, err := p.Emitter.Emit(frame, cfg.SilentOutput, cfg.Video.Duration, cfg.Video.FPS)
	if err != nil {
		return nil, fmt.Errorf("write silent video: %w", err)
	}
	log.Info("silent video written", zap.String("path", cfg.SilentOutput), zap.Int("frames", frames))

	plan, err := p.Muxer.Mux(cfg.SilentOutput, cfg.AudioPath, cfg.FinalOutput)
	if err != nil {
		return nil, fmt.Errorf("mux audio: %w", err)
	}
	log.Info("final video written", zap.String("path", cfg.FinalOutput),
		zap.Int("copies", plan.Copies), zap.Float64("duration", plan.Target))

	return &Result{
		Image:     imagePath,
		Quote:     quote,
		Placement: placement,
		Frames:    frames,
		Silent:    cfg.SilentOutput,
		Output:    cfg.FinalOutput,
		Loop:      plan,
	}, nil
}

// SelectImage returns the path of a random image in the configured directory.
func (p *Pipeline) SelectImage() (string, error) {
	dir := p.Config.ImageDir
	names, err := media.ListImages(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	if err != nil {
		return "", err
	}
	name, err := media.Pick(p.Rand, names)
	if errors.Is(err, media.ErrEmptyChoice) {
		return "", fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// SelectQuote returns a random quote from the configured source.
func (p *Pipeline) SelectQuote() (string, error) {
	quotes, err := p.Config.LoadQuotes()
	if err != nil {
		return "", err
	}
	q, err := media.Pick(p.Rand, quotes)
	if err != nil {
		return "", fmt.Errorf("select quote: %w", err)
	}
	return q, nil
}

// ComposeFrame fits quote into the caption box of img and burns it in.
// A font that cannot be loaded switches to the renderer's fallback face and
// a fixed-width wrap.
func (p *Pipeline) ComposeFrame(img image.Image, quote string) (*image.RGBA, *layout.Placement, error) {
	cfg := p.Config
	log := p.logger()
	b := img.Bounds()
	placeOpts := cfg.PlaceOptions()
	box := layout.CaptionBox(b.Dx(), b.Dy(), placeOpts)

	fit, err := layout.Fit(quote, box, p.Renderer, cfg.FitOptions())
	switch {
	case errors.Is(err, renderer.ErrFontUnavailable):
		log.Warn("font unavailable, using built-in font", zap.String("font", cfg.FontPath), zap.Error(err))
		fit = layout.FitFallback(quote, p.Renderer.Fallback(), cfg.Text.FallbackWrap)
	case err != nil:
		return nil, nil, fmt.Errorf("fit caption: %w", err)
	case fit.Degraded:
		log.Warn("caption overflows box at minimum size",
			zap.Int("size", fit.Size), zap.Int("height", fit.TotalHeight()), zap.Int("box_height", box.Height))
	}
	log.Info("caption fitted", zap.Int("size", fit.Size), zap.Int("lines", len(fit.Lines)),
		zap.Int("box_width", box.Width), zap.Int("box_height", box.Height))

	placement, err := layout.Place(fit, b.Dx(), b.Dy(), placeOpts)
	if err != nil {
		return nil, nil, err
	}
	frame, err := p.Renderer.Compose(img, placement)
	if err != nil {
		return nil, nil, fmt.Errorf("compose frame: %w", err)
	}
	return frame, placement, nil
}

func makeOutputDirs(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
