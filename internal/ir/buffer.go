package ir

import (
	"fmt"
	"image"
	"image/color"
)

// PixelBuffer is the intermediate representation passed between the codec
// and the color transform. Pixels are 8-bit non-premultiplied RGBA values
// stored row-major. The dimensions are fixed when the buffer is created.
type PixelBuffer struct {
	width  int
	height int
	pix    []color.NRGBA // len = width * height
}

// New returns a zeroed (fully transparent black) buffer.
func New(width, height int) *PixelBuffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("ir: negative buffer size %dx%d", width, height))
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]color.NRGBA, width*height),
	}
}

// FromImage copies img into a new buffer, converting every pixel to 8-bit
// RGBA. Sources without an alpha channel come out opaque.
func FromImage(img image.Image) *PixelBuffer {
	r := img.Bounds()
	b := New(r.Dx(), r.Dy())

	if src, ok := img.(*image.NRGBA); ok {
		// Copy channel values directly; going through RGBA() would
		// premultiply and lose precision for translucent pixels.
		for y := 0; y < b.height; y++ {
			off := src.PixOffset(r.Min.X, r.Min.Y+y)
			row := src.Pix[off : off+4*b.width]
			dst := b.Row(y)
			for x := range dst {
				i := 4 * x
				dst[x] = color.NRGBA{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]}
			}
		}
		return b
	}

	for y := 0; y < b.height; y++ {
		dst := b.Row(y)
		for x := range dst {
			dst[x] = color.NRGBAModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA)
		}
	}
	return b
}

// Width returns the number of columns.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *PixelBuffer) Height() int { return b.height }

// At returns the color at column x, row y.
func (b *PixelBuffer) At(x, y int) color.NRGBA {
	return b.pix[b.index(x, y)]
}

// Set overwrites the color at column x, row y.
func (b *PixelBuffer) Set(x, y int, c color.NRGBA) {
	b.pix[b.index(x, y)] = c
}

// Row returns row y. Writes to the returned slice modify the buffer.
func (b *PixelBuffer) Row(y int) []color.NRGBA {
	if y < 0 || y >= b.height {
		panic(fmt.Sprintf("ir: row %d out of range [0,%d)", y, b.height))
	}
	return b.pix[y*b.width : (y+1)*b.width : (y+1)*b.width]
}

// Fill sets every pixel to c.
func (b *PixelBuffer) Fill(c color.NRGBA) {
	for i := range b.pix {
		b.pix[i] = c
	}
}

// Equal reports whether o has the same dimensions and pixels as b.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i, c := range b.pix {
		if o.pix[i] != c {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	c := &PixelBuffer{width: b.width, height: b.height, pix: make([]color.NRGBA, len(b.pix))}
	copy(c.pix, b.pix)
	return c
}

// Image returns a copy of the buffer as an *image.NRGBA anchored at (0, 0),
// ready to hand to an encoder.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*b.width]
		for x, c := range b.Row(y) {
			i := 4 * x
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

func (b *PixelBuffer) index(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("ir: pixel (%d,%d) out of range %dx%d", x, y, b.width, b.height))
	}
	return y*b.width + x
}
