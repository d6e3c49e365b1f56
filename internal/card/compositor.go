// Package card renders greeting cards: it loads the font and background,
// composites the name onto the background and encodes the result.
package card

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	imagepkg "github.com/youruser/greetingcard/internal/image"
	"github.com/youruser/greetingcard/internal/name"
)

var errEmptyName = errors.New("empty name")

// FontProvider is the process-wide font cache. *fonts.Manager implements it.
type FontProvider interface {
	Loaded() bool
	Load(ctx context.Context) (*opentype.Font, error)
	Face(size float64) (font.Face, error)
}

// BackgroundLoader loads the card background. It is called once per render.
type BackgroundLoader interface {
	Load(ctx context.Context) (image.Image, error)
}

// SourceBackground loads the background from a fixed path or URL.
type SourceBackground struct {
	Source  string
	Timeout time.Duration
}

func (b SourceBackground) Load(ctx context.Context) (image.Image, error) {
	return imagepkg.DownloadImage(ctx, b.Source, b.Timeout)
}

// Compositor renders one card per Render call. A Compositor is safe for
// concurrent use; every render draws on its own canvas.
type Compositor struct {
	fonts      FontProvider
	background BackgroundLoader
	style      imagepkg.Style
	fontSize   float64
	log        *zap.Logger
	observer   func(Stage)
}

type Option func(*Compositor)

func WithStyle(s imagepkg.Style) Option {
	return func(c *Compositor) { c.style = s }
}

func WithFontSize(size float64) Option {
	return func(c *Compositor) { c.fontSize = size }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Compositor) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver registers fn to be called on every stage transition.
func WithObserver(fn func(Stage)) Option {
	return func(c *Compositor) { c.observer = fn }
}

func NewCompositor(fonts FontProvider, background BackgroundLoader, opts ...Option) *Compositor {
	c := &Compositor{
		fonts:      fonts,
		background: background,
		style:      imagepkg.DefaultStyle(),
		fontSize:   64,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render draws clean onto the background. clean must already be a
// normalized name. Failures never escape as errors or panics; they come
// back as a Result with StatusError.
//
// The font is loaded first (skipped once cached), then the background (never
// cached), then the card is composited and encoded, always in that order.
func (c *Compositor) Render(ctx context.Context, clean string) Result {
	log := c.log.With(zap.String("render_id", uuid.NewString()), zap.String("name", clean))
	start := time.Now()

	fail := func(kind Kind, stage Stage, err error) Result {
		c.observe(StageFailed)
		log.Warn("render failed",
			zap.String("kind", string(kind)),
			zap.Stringer("stage", stage),
			zap.Error(err))
		return failure(clean, kind, stage, err)
	}

	if strings.TrimSpace(clean) == "" {
		return fail(KindInvalidInput, StageIdle, errEmptyName)
	}

	if !c.fonts.Loaded() {
		c.observe(StageLoadingFont)
		if _, err := c.fonts.Load(ctx); err != nil {
			return fail(KindFontLoad, StageLoadingFont, err)
		}
	}

	c.observe(StageLoadingImage)
	bg, err := c.background.Load(ctx)
	if err != nil {
		return fail(KindImageLoad, StageLoadingImage, err)
	}

	c.observe(StageCompositing)
	var canvas *image.NRGBA
	err = guard(func() (err error) {
		canvas, err = c.compose(bg, clean)
		return err
	})
	if err != nil {
		return fail(KindComposition, StageCompositing, err)
	}

	c.observe(StageEncoding)
	var payload []byte
	err = guard(func() (err error) {
		payload, err = imagepkg.EncodePNG(canvas)
		return err
	})
	if err != nil {
		return fail(KindComposition, StageEncoding, err)
	}

	c.observe(StageDone)
	log.Info("render done",
		zap.Int("bytes", len(payload)),
		zap.Duration("took", time.Since(start)))

	return Result{
		Status:   StatusSuccess,
		Name:     clean,
		PNG:      payload,
		DataURI:  imagepkg.DataURI(payload),
		FileName: name.FileName(clean),
	}
}

func (c *Compositor) compose(bg image.Image, clean string) (*image.NRGBA, error) {
	face, err := c.fonts.Face(c.fontSize)
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	return imagepkg.ComposeGreeting(bg, face, clean, c.style)
}

func (c *Compositor) observe(s Stage) {
	if c.observer != nil {
		c.observer(s)
	}
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
