package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/greetingcard/internal/card"
	imagepkg "github.com/youruser/greetingcard/internal/image"
	"github.com/youruser/greetingcard/internal/name"
)

const (
	msgMissingName   = "No name provided in the URL."
	msgMissingField  = "Please enter your friend's name."
	defaultQRSize    = 400
	defaultPublicURL = "/"
)

// Handler serves greeting cards over HTTP.
type Handler struct {
	normalizer    name.Normalizer
	renderer      card.Renderer
	publicURL     string
	renderTimeout time.Duration
	log           *zap.Logger
}

type HandlerConfig struct {
	Normalizer    name.Normalizer
	Renderer      card.Renderer
	PublicURL     string
	RenderTimeout time.Duration
	Logger        *zap.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		normalizer:    cfg.Normalizer,
		renderer:      cfg.Renderer,
		publicURL:     cfg.PublicURL,
		renderTimeout: cfg.RenderTimeout,
		log:           cfg.Logger,
	}
	if h.publicURL == "" {
		h.publicURL = defaultPublicURL
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// greetingImage returns the rendered PNG for the "name" query param.
func (h *Handler) greetingImage(c *gin.Context) {
	clean, ok := h.queryName(c)
	if !ok {
		return
	}
	res, ok := h.render(c, clean)
	if !ok {
		return
	}

	disposition := "inline"
	if download, _ := strconv.ParseBool(c.Query("download")); download {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": res.FileName}))
	c.Data(http.StatusOK, "image/png", res.PNG)
}

type greetingRequest struct {
	Name string `json:"name" form:"name"`
}

type greetingResponse struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ShareURL string `json:"share_url"`
	FileName string `json:"file_name"`
	DataURI  string `json:"data_uri"`
}

// createGreeting accepts a name from a JSON body or a form field and returns
// the card as a data URI along with its share link.
func (h *Handler) createGreeting(c *gin.Context) {
	var req greetingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": card.KindInvalidInput})
		return
	}
	clean, ok := h.cleanName(c, req.Name, msgMissingField)
	if !ok {
		return
	}
	res, ok := h.render(c, clean)
	if !ok {
		return
	}

	slug := name.Slug(clean)
	c.JSON(http.StatusOK, greetingResponse{
		Name:     clean,
		Slug:     slug,
		ShareURL: h.shareURL(slug),
		FileName: res.FileName,
		DataURI:  res.DataURI,
	})
}

type shareResponse struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ShareURL    string `json:"share_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// share returns the share link and page metadata for a name.
func (h *Handler) share(c *gin.Context) {
	clean, ok := h.queryName(c)
	if !ok {
		return
	}
	slug := name.Slug(clean)
	c.JSON(http.StatusOK, shareResponse{
		Name:        clean,
		Slug:        slug,
		ShareURL:    h.shareURL(slug),
		Title:       fmt.Sprintf("Happy Friendship Day, %s", clean),
		Description: fmt.Sprintf("A special Friendship Day greeting for %s.", clean),
	})
}

// qr returns a PNG QR code of the share link for "name".
func (h *Handler) qr(c *gin.Context) {
	clean, ok := h.queryName(c)
	if !ok {
		return
	}
	size := defaultQRSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(h.shareURL(name.Slug(clean)), size)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// queryName cleans the "name" query param. An absent or empty param falls
// back to name.DefaultName; a value made only of link punctuation is missing.
func (h *Handler) queryName(c *gin.Context) (string, bool) {
	raw := c.Query("name")
	if raw == "" {
		raw = name.DefaultName
	}
	if !name.HasSlugContent(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingName, "kind": card.KindInvalidInput})
		return "", false
	}
	return h.cleanName(c, raw, msgMissingName)
}

// cleanName normalizes raw or writes a 400 response.
func (h *Handler) cleanName(c *gin.Context, raw, missingMsg string) (string, bool) {
	clean, err := h.normalizer.Normalize(raw)
	switch {
	case err == nil:
		return clean, true
	case errors.Is(err, name.ErrMissingName):
		c.JSON(http.StatusBadRequest, gin.H{"error": missingMsg, "kind": card.KindInvalidInput})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": h.normalizer.RejectionMessage(), "kind": card.KindInvalidInput})
	}
	return "", false
}

// render runs the compositor or writes an error response.
func (h *Handler) render(c *gin.Context, clean string) (card.Result, bool) {
	ctx := c.Request.Context()
	if h.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.renderTimeout)
		defer cancel()
	}

	res := h.renderer.Render(ctx, clean)
	if res.Status == card.StatusSuccess {
		return res, true
	}

	kind := card.KindComposition
	if res.Err != nil {
		kind = res.Err.Kind
		_ = c.Error(res.Err)
	}
	h.log.Warn("greeting render failed",
		zap.String("name", clean),
		zap.String("kind", string(kind)))
	c.JSON(statusFor(kind), gin.H{"error": res.Message(), "kind": kind})
	return res, false
}

func statusFor(k card.Kind) int {
	switch k {
	case card.KindInvalidInput:
		return http.StatusBadRequest
	case card.KindFontLoad, card.KindImageLoad:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// shareURL points the public page at slug via the "name" query param.
func (h *Handler) shareURL(slug string) string {
	u, err := url.Parse(h.publicURL)
	if err != nil {
		u = &url.URL{Path: defaultPublicURL}
	}
	q := u.Query()
	q.Set("name", slug)
	u.RawQuery = q.Encode()
	return u.String()
}
