package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/youruser/greetingcard/internal/card"
	imagepkg "github.com/youruser/greetingcard/internal/image"
	"github.com/youruser/greetingcard/internal/name"
)

// ---------------------------------------------------------------------------
// Manual mocks (func fields)
// ---------------------------------------------------------------------------

type mockRenderer struct {
	RenderFunc func(ctx context.Context, clean string) card.Result
	calls      []string
}

func (m *mockRenderer) Render(ctx context.Context, clean string) card.Result {
	m.calls = append(m.calls, clean)
	return m.RenderFunc(ctx, clean)
}

func successRenderer() *mockRenderer {
	return &mockRenderer{RenderFunc: func(_ context.Context, clean string) card.Result {
		return card.Result{
			Status:   card.StatusSuccess,
			Name:     clean,
			PNG:      []byte("\x89PNG fake"),
			DataURI:  imagepkg.DataURI([]byte("\x89PNG fake")),
			FileName: name.FileName(clean),
		}
	}}
}

func failingRenderer(kind card.Kind) *mockRenderer {
	return &mockRenderer{RenderFunc: func(_ context.Context, clean string) card.Result {
		return card.Result{
			Status: card.StatusError,
			Name:   clean,
			Err:    &card.RenderError{Kind: kind, Err: assert.AnError},
		}
	}}
}

func newTestEngine(r card.Renderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(HandlerConfig{
		Normalizer: name.NewNormalizer(2, 36),
		Renderer:   r,
		PublicURL:  "https://greetings.example/",
		Logger:     zap.NewNop(),
	})
	return NewEngine(h, zap.NewNop())
}

func do(t *testing.T, e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	e := newTestEngine(successRenderer())
	w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestGreetingImage(t *testing.T) {
	r := successRenderer()
	e := newTestEngine(r)

	w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting?name="+url.QueryEscape("  John   Doe!! "), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename=john-doe.png`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, []string{"John Doe"}, r.calls)

	w = do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting?name=Priya+Sharma&download=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=priya-sharma.png`, w.Header().Get("Content-Disposition"))
}

func TestGreetingImage_InvalidNames(t *testing.T) {
	r := successRenderer()
	e := newTestEngine(r)

	w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting?name="+url.QueryEscape("$_-%"), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgMissingName, decode(t, w)["error"])

	w = do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting?name=A", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Invalid name provided. Please ensure it is between 2 to 36 characters.", body["error"])
	assert.Equal(t, string(card.KindInvalidInput), body["kind"])

	w = do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting?name="+url.QueryEscape("***"), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgMissingName, decode(t, w)["error"])

	assert.Empty(t, r.calls)
}

func TestGreetingImage_AbsentNameUsesDefault(t *testing.T) {
	r := successRenderer()
	e := newTestEngine(r)

	w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `inline; filename=friend-name.png`, w.Header().Get("Content-Disposition"))

	w = do(t, e, httptest.NewRequest(http.MethodGet, "/api/share?name=", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Happy Friendship Day, Friend Name", decode(t, w)["title"])

	assert.Equal(t, []string{"Friend Name"}, r.calls)
}

func TestGreetingImage_RenderFailures(t *testing.T) {
	tests := []struct {
		kind card.Kind
		code int
	}{
		{kind: card.KindFontLoad, code: http.StatusBadGateway},
		{kind: card.KindImageLoad, code: http.StatusBadGateway},
		{kind: card.KindComposition, code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := newTestEngine(failingRenderer(tt.kind))
			w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/greeting?name=Bob", nil))
			assert.Equal(t, tt.code, w.Code)
			body := decode(t, w)
			assert.Equal(t, string(tt.kind), body["kind"])
			assert.Equal(t, tt.kind.Message(), body["error"])
		})
	}
}

func TestCreateGreeting_JSON(t *testing.T) {
	e := newTestEngine(successRenderer())

	req := httptest.NewRequest(http.MethodPost, "/api/greeting", strings.NewReader(`{"name":"<b>Priya</b> Sharma"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, e, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp greetingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Priya Sharma", resp.Name)
	assert.Equal(t, "Priya-Sharma", resp.Slug)
	assert.Equal(t, "https://greetings.example/?name=Priya-Sharma", resp.ShareURL)
	assert.Equal(t, "priya-sharma.png", resp.FileName)
	assert.True(t, strings.HasPrefix(resp.DataURI, "data:image/png;base64,"))
}

func TestCreateGreeting_Form(t *testing.T) {
	e := newTestEngine(successRenderer())

	form := url.Values{"name": {"Ann-Lee"}}
	req := httptest.NewRequest(http.MethodPost, "/api/greeting", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(t, e, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ann Lee", decode(t, w)["name"])

	req = httptest.NewRequest(http.MethodPost, "/api/greeting", strings.NewReader("name="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = do(t, e, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgMissingField, decode(t, w)["error"])
}

func TestShare(t *testing.T) {
	e := newTestEngine(successRenderer())

	w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/share?name="+url.QueryEscape("José Müller"), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp shareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "José Müller", resp.Name)
	assert.Equal(t, "Happy Friendship Day, José Müller", resp.Title)
	assert.Equal(t, "A special Friendship Day greeting for José Müller.", resp.Description)

	u, err := url.Parse(resp.ShareURL)
	require.NoError(t, err)
	assert.Equal(t, "José-Müller", u.Query().Get("name"))
}

func TestQR(t *testing.T) {
	r := successRenderer()
	e := newTestEngine(r)

	w := do(t, e, httptest.NewRequest(http.MethodGet, "/api/qr?name=Bob&size=128", nil))
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Empty(t, r.calls)
}
