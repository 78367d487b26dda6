package color

import (
	imgcolor "image/color"

	"github.com/davesmith10/recolor/internal/ir"
	"golang.org/x/sync/errgroup"
)

// Transform replaces every pixel exactly equal to a source color with a
// destination color. All four channels, alpha included, take part in the
// comparison.
type Transform struct {
	src     imgcolor.NRGBA
	dst     imgcolor.NRGBA
	workers int
}

// NewTransform creates a transform from src to dst. With workers > 1 the
// rows are cut into bands and up to workers goroutines scan them at once;
// anything smaller scans on the calling goroutine.
func NewTransform(src, dst imgcolor.NRGBA, workers int) *Transform {
	if workers < 1 {
		workers = 1
	}
	return &Transform{src: src, dst: dst, workers: workers}
}

// bandsPerWorker keeps workers busy when some bands hold more matches
// than others.
const bandsPerWorker = 4

// TransformPixels rewrites buf in place and returns the number of pixels
// replaced.
func (t *Transform) TransformPixels(buf *ir.PixelBuffer) int {
	if t.src == t.dst {
		return 0
	}

	height := buf.Height()
	if t.workers <= 1 || height <= 1 {
		return t.transformRows(buf, 0, height)
	}

	bands := min(height, t.workers*bandsPerWorker)
	size := (height + bands - 1) / bands
	counts := make([]int, bands)

	var g errgroup.Group
	g.SetLimit(t.workers)
	for i := range bands {
		lo := min(i*size, height)
		hi := min(lo+size, height)
		g.Go(func() error {
			counts[i] = t.transformRows(buf, lo, hi)
			return nil
		})
	}
	// Wait only joins: no band returns an error.
	g.Wait()

	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func (t *Transform) transformRows(buf *ir.PixelBuffer, lo, hi int) int {
	n := 0
	for y := lo; y < hi; y++ {
		row := buf.Row(y)
		for x, c := range row {
			if c == t.src {
				row[x] = t.dst
				n++
			}
		}
	}
	return n
}

// Count returns the number of pixels in buf exactly equal to c.
func Count(buf *ir.PixelBuffer, c imgcolor.NRGBA) int {
	n := 0
	for y := 0; y < buf.Height(); y++ {
		for _, p := range buf.Row(y) {
			if p == c {
				n++
			}
		}
	}
	return n
}

// Distinct returns the number of different colors in buf.
func Distinct(buf *ir.PixelBuffer) int {
	seen := make(map[imgcolor.NRGBA]struct{})
	for y := 0; y < buf.Height(); y++ {
		for _, p := range buf.Row(y) {
			seen[p] = struct{}{}
		}
	}
	return len(seen)
}
