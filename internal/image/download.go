package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/youruser/greetingcard/internal/util"
)

var ErrDecode = errors.New("decode image")

// DownloadImage loads an image from an http(s) URL, a file:// URL or a local
// path and decodes it. Nothing is cached; every call reads the source again.
func DownloadImage(ctx context.Context, source string, timeout time.Duration) (image.Image, error) {
	body, err := util.GetBytes(ctx, source, timeout)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}
