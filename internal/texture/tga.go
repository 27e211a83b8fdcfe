package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

// ErrTGA is wrapped by every TGA decoding error.
var ErrTGA = errors.New("tga")

// decodeTGA decodes an uncompressed or RLE true-color (24/32 bit) or
// grayscale (8 bit) TGA file. TGA has no magic number, so callers select
// this decoder by file extension.
func decodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: header truncated", ErrTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped images not supported", ErrTGA)
	}
	rle := imageType == tgaTrueColorRLE || imageType == tgaGrayRLE
	switch {
	case (imageType == tgaTrueColor || imageType == tgaTrueColorRLE) && (bpp == 24 || bpp == 32):
	case (imageType == tgaGray || imageType == tgaGrayRLE) && bpp == 8:
	default:
		return nil, fmt.Errorf("%w: unsupported type %d at %d bpp", ErrTGA, imageType, bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: image id truncated", ErrTGA)
	}

	// Check the header dimensions against the payload before allocating.
	pixels, avail := width*height, len(data)-offset
	if rle && pixels > avail*128 || !rle && pixels*(bpp/8) > avail {
		return nil, fmt.Errorf("%w: %dx%d image needs more than %d bytes of pixel data", ErrTGA, width, height, avail)
	}

	r := &tgaReader{data: data[offset:], pixelSize: bpp / 8}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for i := 0; i < width*height; {
		count, repeat := 1, false
		if rle {
			head, ok := r.byte()
			if !ok {
				return nil, fmt.Errorf("%w: pixel data truncated", ErrTGA)
			}
			count = int(head&0x7f) + 1
			repeat = head&0x80 != 0
		}

		var c color.NRGBA
		for j := 0; j < count && i < width*height; j++ {
			if j == 0 || !repeat {
				var ok bool
				if c, ok = r.pixel(); !ok {
					return nil, fmt.Errorf("%w: pixel data truncated", ErrTGA)
				}
			}
			x, y := i%width, i/width
			if !topToBottom {
				y = height - 1 - y
			}
			img.SetNRGBA(x, y, c)
			i++
		}
	}
	return img, nil
}

type tgaReader struct {
	data      []byte
	pos       int
	pixelSize int
}

func (r *tgaReader) byte() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	b := r.data[r.pos]
	r.pos++
	return b, true
}

// pixel reads one BGR(A) or gray value.
func (r *tgaReader) pixel() (color.NRGBA, bool) {
	if r.pos+r.pixelSize > len(r.data) {
		return color.NRGBA{}, false
	}
	p := r.data[r.pos : r.pos+r.pixelSize]
	r.pos += r.pixelSize

	switch r.pixelSize {
	case 1:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: 0xff}, true
	case 3:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xff}, true
	default:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}, true
	}
}
