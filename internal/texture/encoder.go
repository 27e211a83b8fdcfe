// Package texture writes the images referenced by materials as JPEG files
// beside the exported scene document.
package texture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/Faultbox/scenexport/internal/logger"
	"github.com/Faultbox/scenexport/pkg/scene"
)

// ErrNoPixels is returned for images with neither pixels nor a file.
var ErrNoPixels = errors.New("image has no pixel data")

// Options controls JPEG export.
type Options struct {
	Dir     string      // Subdirectory of the document directory
	Quality int         // JPEG quality, 1-100
	MaxSize int         // Longest edge in pixels, 0 = keep
	Matte   color.Color // Background for transparent pixels
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{Dir: "textures", Quality: 90, Matte: color.White}
}

// JPEGEncoder writes images into <root>/<Dir> as JPEG files named after the
// image. It is not transactional: files written before a failure stay.
type JPEGEncoder struct {
	root    string
	opts    Options
	written map[string]string // image name -> document path
}

// NewJPEGEncoder creates an encoder writing under root, normally the
// directory of the scene document.
func NewJPEGEncoder(root string, opts Options) *JPEGEncoder {
	if opts.Dir == "" {
		opts.Dir = "textures"
	}
	if opts.Quality <= 0 {
		opts.Quality = jpeg.DefaultQuality
	}
	if opts.Matte == nil {
		opts.Matte = color.White
	}
	return &JPEGEncoder{root: root, opts: opts, written: make(map[string]string)}
}

// FileName returns the JPEG file name for an image name.
func FileName(imageName string) string {
	base := filepath.Base(filepath.FromSlash(imageName))
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
}

// Encode writes img and returns its slash-separated path relative to the
// document. An image already written by this encoder is not written again.
func (e *JPEGEncoder) Encode(img *scene.Image) (string, error) {
	if p, ok := e.written[img.Name]; ok {
		return p, nil
	}

	src, err := Load(img)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(e.root, filepath.FromSlash(e.opts.Dir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := FileName(img.Name)
	if err := writeJPEG(filepath.Join(dir, name), e.prepare(src), e.opts.Quality); err != nil {
		return "", err
	}

	rel := path.Join(filepath.ToSlash(e.opts.Dir), name)
	e.written[img.Name] = rel

	b := src.Bounds()
	logger.Debug("texture written",
		zap.String("image", img.Name),
		zap.String("path", rel),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return rel, nil
}

// prepare downscales src if needed and flattens it onto the matte color.
func (e *JPEGEncoder) prepare(src image.Image) image.Image {
	b := src.Bounds()
	if w, h, ok := fit(b.Dx(), b.Dy(), e.opts.MaxSize); ok {
		src = transform.Resize(src, w, h, transform.Linear)
		b = src.Bounds()
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(e.opts.Matte), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// fit returns the size of a w x h image scaled so its longest edge is at
// most maxSize. ok is false when no scaling is needed.
func fit(w, h, maxSize int) (int, int, bool) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h, false
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w), true
	}
	return max(1, w*maxSize/h), maxSize, true
}

// Load returns the pixels of img, decoding its file when it has no
// in-memory pixels.
func Load(img *scene.Image) (image.Image, error) {
	if img.Pixels != nil {
		return img.Pixels, nil
	}
	if img.Filepath == "" {
		return nil, fmt.Errorf("%q: %w", img.Name, ErrNoPixels)
	}

	data, err := os.ReadFile(img.Filepath)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(img.Filepath), ".tga") {
		return decodeTGA(data)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", img.Filepath, err)
	}
	return src, nil
}

func writeJPEG(filename string, img image.Image, quality int) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	bw := bufio.NewWriter(f)
	if err := jpeg.Encode(bw, img, &jpeg.Options{Quality: quality}); err != nil {
		return err
	}
	return bw.Flush()
}
