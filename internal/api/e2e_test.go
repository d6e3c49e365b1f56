package api

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/greetingcard/internal/card"
	"github.com/youruser/greetingcard/internal/fonts"
)

func TestGreetingImage_EndToEnd(t *testing.T) {
	bgPath := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, imaging.Save(imaging.New(200, 200, image.Black), bgPath))

	fm := fonts.NewManager(fonts.Source{Family: "Go", URL: fonts.EmbeddedGoRegular})
	c := card.NewCompositor(fm, card.SourceBackground{Source: bgPath, Timeout: time.Second})
	e := newTestEngine(c)

	w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting?name=Priya+Sharma", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1080, 1080), img.Bounds())
	assert.True(t, fm.Loaded())
}
