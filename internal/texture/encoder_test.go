package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenexport/pkg/scene"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func readJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	return img
}

func TestFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"wood.png", "wood.jpg"},
		{"wood", "wood.jpg"},
		{"brick.wall.tga", "brick.wall.jpg"},
		{"sub/dir/stone.JPG", "stone.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.in))
	}
}

func TestEncode_WritesJPEG(t *testing.T) {
	root := t.TempDir()
	enc := NewJPEGEncoder(root, DefaultOptions())

	rel, err := enc.Encode(&scene.Image{Name: "wood.png", Pixels: solid(8, 4, color.NRGBA{R: 200, A: 255})})
	require.NoError(t, err)
	assert.Equal(t, "textures/wood.jpg", rel)

	img := readJPEG(t, filepath.Join(root, "textures", "wood.jpg"))
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	r, g, _, _ := img.At(4, 2).RGBA()
	assert.InDelta(t, 200, r>>8, 8)
	assert.InDelta(t, 0, g>>8, 8)
}

func TestEncode_FlattensAlphaOntoMatte(t *testing.T) {
	root := t.TempDir()
	enc := NewJPEGEncoder(root, Options{Dir: "maps", Quality: 100, Matte: color.NRGBA{G: 255, A: 255}})

	rel, err := enc.Encode(&scene.Image{Name: "clear.png", Pixels: solid(4, 4, color.NRGBA{})})
	require.NoError(t, err)
	assert.Equal(t, "maps/clear.jpg", rel)

	img := readJPEG(t, filepath.Join(root, "maps", "clear.jpg"))
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.InDelta(t, 0, r>>8, 8)
	assert.InDelta(t, 255, g>>8, 8)
	assert.InDelta(t, 0, b>>8, 8)
}

func TestEncode_Downscales(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	opts.MaxSize = 16
	enc := NewJPEGEncoder(root, opts)

	_, err := enc.Encode(&scene.Image{Name: "big.png", Pixels: solid(64, 32, color.White)})
	require.NoError(t, err)

	img := readJPEG(t, filepath.Join(root, "textures", "big.jpg"))
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestEncode_SameImageOnce(t *testing.T) {
	root := t.TempDir()
	enc := NewJPEGEncoder(root, DefaultOptions())
	img := &scene.Image{Name: "tile.png", Pixels: solid(2, 2, color.Black)}

	first, err := enc.Encode(img)
	require.NoError(t, err)

	target := filepath.Join(root, "textures", "tile.jpg")
	require.NoError(t, os.Remove(target))

	second, err := enc.Encode(img)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoFileExists(t, target)
}

func TestEncode_FromFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "source.png")

	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solid(3, 5, color.White)))
	require.NoError(t, f.Close())

	enc := NewJPEGEncoder(filepath.Join(root, "out"), DefaultOptions())
	rel, err := enc.Encode(&scene.Image{Name: "source.png", Filepath: src})
	require.NoError(t, err)

	img := readJPEG(t, filepath.Join(root, "out", filepath.FromSlash(rel)))
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())
}

func TestEncode_Errors(t *testing.T) {
	enc := NewJPEGEncoder(t.TempDir(), DefaultOptions())

	_, err := enc.Encode(&scene.Image{Name: "ghost.png"})
	assert.ErrorIs(t, err, ErrNoPixels)

	_, err = enc.Encode(&scene.Image{Name: "missing.png", Filepath: "/nonexistent/missing.png"})
	assert.Error(t, err)

	// Texture directory blocked by a regular file.
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "textures"), []byte("x"), 0644))
	_, err = NewJPEGEncoder(root, DefaultOptions()).Encode(&scene.Image{Name: "a.png", Pixels: solid(1, 1, color.White)})
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
		wantOK       bool
	}{
		{100, 50, 0, 100, 50, false},
		{100, 50, 200, 100, 50, false},
		{100, 50, 50, 50, 25, true},
		{50, 100, 50, 25, 50, true},
		{1000, 1, 10, 10, 1, true},
	}
	for _, tt := range tests {
		w, h, ok := fit(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantOK, ok)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
	}
}
