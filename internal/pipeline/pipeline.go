package pipeline

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/davesmith10/recolor/internal/codec"
	recolor "github.com/davesmith10/recolor/internal/color"
	"github.com/davesmith10/recolor/internal/icc"
)

// Options controls a single recolor run.
type Options struct {
	InputPath  string
	OutputPath string
	Src        color.NRGBA  // pixels equal to Src...
	Dst        color.NRGBA  // ...are replaced with Dst
	Quality    int          // JPEG output quality (1-100), 0 for the default
	Workers    int          // concurrent row bands, <= 1 scans serially
	Logger     *slog.Logger // optional
}

// Result holds the output of a pipeline run.
type Result struct {
	Width    int
	Height   int
	Format   string // decoded input format
	Replaced int
}

// LoadError reports that the input image could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports that the output image could not be encoded or written.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Run executes the full pipeline: decode → replace → encode. Nothing is
// written when the input cannot be loaded.
func Run(opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	// 1. Decode, normalized to 8-bit RGBA
	decoded, err := codec.Load(opts.InputPath)
	if err != nil {
		return nil, &LoadError{Path: opts.InputPath, Err: err}
	}
	buf := decoded.Buffer
	log.Debug("loaded image",
		"path", opts.InputPath,
		"format", decoded.Format,
		"model", decoded.ColorModel,
		"width", buf.Width(),
		"height", buf.Height())

	// 2. Replace exact matches in place
	xform := recolor.NewTransform(opts.Src, opts.Dst, opts.Workers)
	replaced := xform.TransformPixels(buf)
	log.Debug("replaced pixels",
		"src", recolor.Format(opts.Src),
		"dst", recolor.Format(opts.Dst),
		"count", replaced)

	// 3. Encode. An RGB profile from the input follows the pixels to PNG
	// and JPEG outputs; other profiles no longer describe them.
	encOpts := codec.EncoderOptions{Quality: opts.Quality}
	if decoded.ICCError != nil {
		log.Debug("ignoring embedded ICC profile", "error", decoded.ICCError)
	}
	if decoded.ICC != nil {
		if hdr, err := icc.ReadHeader(decoded.ICC); err != nil {
			log.Debug("ignoring embedded ICC profile", "error", err)
		} else if !hdr.IsRGB() {
			log.Debug("ignoring non-RGB ICC profile", "profile", hdr.Describe())
		} else {
			encOpts.ICC, encOpts.ICCName = decoded.ICC, decoded.ICCName
		}
	}
	if err := codec.Save(opts.OutputPath, buf, encOpts); err != nil {
		return nil, &SaveError{Path: opts.OutputPath, Err: err}
	}
	log.Debug("saved image", "path", opts.OutputPath)

	return &Result{
		Width:    buf.Width(),
		Height:   buf.Height(),
		Format:   decoded.Format,
		Replaced: replaced,
	}, nil
}
