package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Name       NameConfig       `yaml:"name"`
	Font       FontConfig       `yaml:"font"`
	Background BackgroundConfig `yaml:"background"`
	Card       CardConfig       `yaml:"card"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RenderTimeout   time.Duration `yaml:"render_timeout"   env:"SERVER_RENDER_TIMEOUT"   env-default:"20s"`
	// PublicURL is the page share links point at.
	PublicURL string `yaml:"public_url" env:"SERVER_PUBLIC_URL" env-default:"http://localhost:8080/"`
	GinMode   string `yaml:"gin_mode"   env:"GIN_MODE"          env-default:"release"`
}

// NameConfig bounds the length of a clean name, in grapheme clusters.
type NameConfig struct {
	MinLen int `yaml:"min_len" env:"NAME_MIN_LEN" env-default:"2"`
	MaxLen int `yaml:"max_len" env:"NAME_MAX_LEN" env-default:"36"`
}

// FontConfig identifies the greeting typeface.
type FontConfig struct {
	Family       string        `yaml:"family"        env:"FONT_FAMILY"        env-default:"Go Regular"`
	URL          string        `yaml:"url"           env:"FONT_URL"           env-default:"embedded:goregular"`
	Size         float64       `yaml:"size"          env:"FONT_SIZE"          env-default:"72"`
	DPI          float64       `yaml:"dpi"           env:"FONT_DPI"           env-default:"72"`
	LineHeight   float64       `yaml:"line_height"   env:"FONT_LINE_HEIGHT"   env-default:"86"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FONT_FETCH_TIMEOUT" env-default:"10s"`
}

// BackgroundConfig locates the card background.
type BackgroundConfig struct {
	Source       string        `yaml:"source"        env:"BACKGROUND_SOURCE"        env-default:"assets/background.png"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"BACKGROUND_FETCH_TIMEOUT" env-default:"10s"`
}

// CardConfig fixes the canvas geometry and text colours.
type CardConfig struct {
	Width         int     `yaml:"width"           env:"CARD_WIDTH"           env-default:"1080"`
	Height        int     `yaml:"height"          env:"CARD_HEIGHT"          env-default:"1080"`
	AnchorX       float64 `yaml:"anchor_x"        env:"CARD_ANCHOR_X"        env-default:"540"`
	AnchorY       float64 `yaml:"anchor_y"        env:"CARD_ANCHOR_Y"        env-default:"540"`
	MaxWidthRatio float64 `yaml:"max_width_ratio" env:"CARD_MAX_WIDTH_RATIO" env-default:"0.8"`
	TextColor     string  `yaml:"text_color"      env:"CARD_TEXT_COLOR"      env-default:"#FFFFFF"`
	ShadowColor   string  `yaml:"shadow_color"    env:"CARD_SHADOW_COLOR"    env-default:"#000000B3"`
	ShadowBlur    float64 `yaml:"shadow_blur"     env:"CARD_SHADOW_BLUR"     env-default:"6"`
	ShadowOffsetX int     `yaml:"shadow_offset_x" env:"CARD_SHADOW_OFFSET_X" env-default:"3"`
	ShadowOffsetY int     `yaml:"shadow_offset_y" env:"CARD_SHADOW_OFFSET_Y" env-default:"3"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
