// Package codec decodes image files into pixel buffers and encodes pixel
// buffers back to files, picking the output format from the file name.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	stdjpeg "image/jpeg"
	stdpng "image/png"
	"io"
	"os"

	"github.com/davesmith10/recolor/internal/ir"
	"github.com/davesmith10/recolor/internal/jpeg"
	"github.com/davesmith10/recolor/internal/png"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is the JPEG quality used when EncoderOptions leaves it unset.
const DefaultQuality = 90

// Decoded holds a decoded image normalized to 8-bit RGBA.
type Decoded struct {
	Buffer     *ir.PixelBuffer
	Format     string // as registered with package image, e.g. "png"
	ColorModel string // color model of the decoded image before normalization
	ICC        []byte // embedded ICC profile, nil if absent or unreadable
	ICCName    string // PNG only: profile name from the iCCP chunk
	ICCError   error  // why an embedded profile was dropped, if it was
}

// EncoderOptions controls encoding.
type EncoderOptions struct {
	Quality int    // JPEG quality 1-100, default DefaultQuality
	ICC     []byte // JPEG and PNG: ICC profile to embed (can be nil)
	ICCName string // PNG only: iCCP profile name
}

// Load reads and decodes the image file at path.
func Load(path string) (*Decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode decodes an image of any registered format. Only the first frame
// of animated images is used.
func Decode(data []byte) (*Decoded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	d := &Decoded{
		Buffer:     ir.FromImage(img),
		Format:     format,
		ColorModel: colorModelName(img.ColorModel()),
	}

	// The profile is optional metadata: a stream the image decoder
	// accepted is never rejected because of it.
	switch format {
	case "jpeg":
		d.ICC, d.ICCError = jpegICC(data)
	case "png":
		d.ICCName, d.ICC, d.ICCError = png.ExtractICC(data)
	}
	if d.ICCError != nil {
		d.ICC, d.ICCName = nil, ""
	}
	return d, nil
}

func jpegICC(data []byte) ([]byte, error) {
	segments, err := jpeg.APP2Segments(data)
	if err != nil {
		return nil, fmt.Errorf("reading JPEG markers: %w", err)
	}
	profile, err := jpeg.ExtractICC(segments)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}
	return profile, nil
}

// Save encodes buf to path in the format implied by its extension. The
// format is checked before the file is created, and a file left behind by
// a failed encode is removed.
func Save(path string, buf *ir.PixelBuffer, opts EncoderOptions) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !f.CanEncode() {
		return fmt.Errorf("%w: %s", ErrEncodeUnsupported, f)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return Encode(out, buf, f, opts)
}

// Encode writes buf to w in format f.
func Encode(w io.Writer, buf *ir.PixelBuffer, f Format, opts EncoderOptions) error {
	img := buf.Image()

	switch f {
	case PNG:
		return encodePNG(w, img, opts)
	case JPEG:
		return encodeJPEG(w, img, opts)
	case GIF:
		return gif.Encode(w, palettedImage(img), nil)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case WebP:
		return fmt.Errorf("%w: %s", ErrEncodeUnsupported, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

func encodePNG(w io.Writer, img image.Image, opts EncoderOptions) error {
	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, img); err != nil {
		return err
	}
	data := buf.Bytes()
	if len(opts.ICC) > 0 {
		var err error
		data, err = png.EmbedICC(data, opts.ICCName, opts.ICC)
		if err != nil {
			return fmt.Errorf("embedding ICC: %w", err)
		}
	}
	_, err := w.Write(data)
	return err
}

func encodeJPEG(w io.Writer, img image.Image, opts EncoderOptions) error {
	quality := opts.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("JPEG quality %d out of range 1-100", quality)
	}

	var buf bytes.Buffer
	if err := stdjpeg.Encode(&buf, img, &stdjpeg.Options{Quality: quality}); err != nil {
		return err
	}
	data := buf.Bytes()
	if len(opts.ICC) > 0 {
		var err error
		data, err = jpeg.EmbedICC(data, opts.ICC)
		if err != nil {
			return fmt.Errorf("embedding ICC: %w", err)
		}
	}
	_, err := w.Write(data)
	return err
}

// palettedImage converts img to a paletted image. Images with at most 256
// colors keep their exact colors; larger ones are dithered to the Plan 9
// palette, as gif.Encode would do. GIF has a single transparent index, so
// every fully transparent pixel shares one (0,0,0,0) entry.
func palettedImage(img *image.NRGBA) *image.Paletted {
	r := img.Bounds()
	index := make(map[color.NRGBA]uint8)
	var pal color.Palette
	pix := make([]uint8, 0, r.Dx()*r.Dy())

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A == 0 {
				c = color.NRGBA{}
			}
			i, ok := index[c]
			if !ok {
				if len(pal) == 256 {
					return ditheredImage(img)
				}
				i = uint8(len(pal))
				index[c] = i
				pal = append(pal, c)
			}
			pix = append(pix, i)
		}
	}
	if len(pal) == 0 {
		pal = color.Palette{color.Transparent}
	}

	return &image.Paletted{Pix: pix, Stride: r.Dx(), Rect: r, Palette: pal}
}

func ditheredImage(img *image.NRGBA) *image.Paletted {
	dst := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Rect, img, img.Rect.Min)
	return dst
}

func colorModelName(cm color.Model) string {
	switch cm {
	case color.RGBAModel:
		return "RGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.AlphaModel:
		return "Alpha"
	case color.Alpha16Model:
		return "Alpha16"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.YCbCrModel:
		return "YCbCr"
	case color.NYCbCrAModel:
		return "NYCbCrA"
	case color.CMYKModel:
		return "CMYK"
	default:
		if _, ok := cm.(color.Palette); ok {
			return "Paletted"
		}
		return "Unknown"
	}
}
