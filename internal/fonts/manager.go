// Package fonts loads the greeting typeface once per process and hands out
// faces of it to the compositor.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/sync/singleflight"

	"github.com/youruser/greetingcard/internal/util"
)

// EmbeddedGoRegular selects the Go Regular font bundled with x/image instead
// of fetching one.
const EmbeddedGoRegular = "embedded:goregular"

var (
	ErrFontLoad  = errors.New("font load failed")
	ErrNotLoaded = errors.New("font not loaded")
)

// Source identifies a typeface by family name and location. URL may be an
// http(s) URL, a file:// URL, a local path or EmbeddedGoRegular.
type Source struct {
	Family string
	URL    string
}

// FetchFunc reads the raw font file.
type FetchFunc func(ctx context.Context, source string, timeout time.Duration) ([]byte, error)

// Manager is the process-wide font cache. Construct one and share it.
type Manager struct {
	src     Source
	timeout time.Duration
	dpi     float64
	fetch   FetchFunc
	log     *zap.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	parsed  *opentype.Font
	fetches atomic.Int64
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithDPI sets the resolution faces are created at. Values below 72 are raised to 72.
func WithDPI(dpi float64) Option {
	return func(m *Manager) { m.dpi = max(dpi, 72) }
}

func WithFetcher(f FetchFunc) Option {
	return func(m *Manager) {
		if f != nil {
			m.fetch = f
		}
	}
}

func NewManager(src Source, opts ...Option) *Manager {
	m := &Manager{
		src:     src,
		timeout: util.DefaultTimeout,
		dpi:     72,
		fetch:   util.GetBytes,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Source() Source { return m.src }

// Loaded reports whether the font has been loaded successfully.
func (m *Manager) Loaded() bool {
	return m.cached() != nil
}

// Fetches is the number of fetch attempts made so far.
func (m *Manager) Fetches() int64 {
	return m.fetches.Load()
}

// Load returns the cached font, fetching and parsing it on first use.
// Concurrent callers share one fetch. A failed load caches nothing, so the
// next call tries again. The fetch is not tied to the first caller's
// cancellation; each caller stops waiting when its own ctx is done.
func (m *Manager) Load(ctx context.Context) (*opentype.Font, error) {
	if f := m.cached(); f != nil {
		return f, nil
	}

	ch := m.group.DoChan(m.src.Family, func() (any, error) {
		if f := m.cached(); f != nil {
			return f, nil
		}
		return m.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrFontLoad, m.src.Family, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*opentype.Font), nil
	}
}

func (m *Manager) load(ctx context.Context) (*opentype.Font, error) {
	m.fetches.Add(1)
	start := time.Now()

	data, err := m.read(ctx)
	if err != nil {
		m.log.Warn("font fetch failed",
			zap.String("family", m.src.Family),
			zap.String("url", m.src.URL),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: fetch: %w", ErrFontLoad, m.src.Family, err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		m.log.Warn("font parse failed",
			zap.String("family", m.src.Family),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: parse: %w", ErrFontLoad, m.src.Family, err)
	}

	m.mu.Lock()
	m.parsed = parsed
	m.mu.Unlock()

	m.log.Info("font loaded",
		zap.String("family", m.src.Family),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)))
	return parsed, nil
}

func (m *Manager) read(ctx context.Context) ([]byte, error) {
	if m.src.URL == EmbeddedGoRegular || m.src.URL == "" {
		return goregular.TTF, nil
	}
	return m.fetch(ctx, m.src.URL, m.timeout)
}

func (m *Manager) cached() *opentype.Font {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parsed
}

// Face returns a face of the loaded font at size points.
func (m *Manager) Face(size float64) (font.Face, error) {
	f := m.cached()
	if f == nil {
		return nil, ErrNotLoaded
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     m.dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face at %.1fpt: %w", size, err)
	}
	return face, nil
}
