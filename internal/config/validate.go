package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/greetingcard/internal/image"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Server.GinMode {
	case "", gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("server.gin_mode must be %q, %q or %q (got %q)",
			gin.DebugMode, gin.ReleaseMode, gin.TestMode, c.Server.GinMode)
	}
	if c.Name.MinLen <= 0 {
		return fmt.Errorf("name.min_len must be > 0 (got %d)", c.Name.MinLen)
	}
	if c.Name.MaxLen < c.Name.MinLen {
		return fmt.Errorf("name.max_len must be >= min_len (got %d < %d)", c.Name.MaxLen, c.Name.MinLen)
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("font.size must be > 0 (got %v)", c.Font.Size)
	}
	if c.Font.LineHeight <= 0 {
		return fmt.Errorf("font.line_height must be > 0 (got %v)", c.Font.LineHeight)
	}
	if c.Font.FetchTimeout <= 0 || c.Background.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeouts must be > 0")
	}
	if strings.TrimSpace(c.Background.Source) == "" {
		return fmt.Errorf("background.source is required")
	}
	if err := c.Card.validate(); err != nil {
		return fmt.Errorf("card: %w", err)
	}
	return nil
}

func (c *CardConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be > 0 (got %dx%d)", c.Width, c.Height)
	}
	if c.MaxWidthRatio <= 0 || c.MaxWidthRatio > 1 {
		return fmt.Errorf("max_width_ratio must be in (0, 1] (got %v)", c.MaxWidthRatio)
	}
	if _, err := ParseHexColor(c.TextColor); err != nil {
		return fmt.Errorf("text_color: %w", err)
	}
	if _, err := ParseHexColor(c.ShadowColor); err != nil {
		return fmt.Errorf("shadow_color: %w", err)
	}
	if c.ShadowBlur < 0 {
		return fmt.Errorf("shadow_blur must be >= 0 (got %v)", c.ShadowBlur)
	}
	return nil
}

// Style converts the card and font settings into a compositing style.
// Colours must already be validated.
func (c *Config) Style() imagepkg.Style {
	text, _ := ParseHexColor(c.Card.TextColor)
	shadow, _ := ParseHexColor(c.Card.ShadowColor)
	return imagepkg.Style{
		Width:         c.Card.Width,
		Height:        c.Card.Height,
		AnchorX:       c.Card.AnchorX,
		AnchorY:       c.Card.AnchorY,
		MaxWidthRatio: c.Card.MaxWidthRatio,
		LineHeight:    c.Font.LineHeight,
		TextColor:     text,
		ShadowColor:   shadow,
		ShadowBlur:    c.Card.ShadowBlur,
		ShadowOffsetX: c.Card.ShadowOffsetX,
		ShadowOffsetY: c.Card.ShadowOffsetY,
	}
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
