package ir

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsTransparent(t *testing.T) {
	b := New(3, 2)
	require.Equal(t, 3, b.Width())
	require.Equal(t, 2, b.Height())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			require.Equal(t, color.NRGBA{}, b.At(x, y))
		}
	}
}

func TestZeroSizedBuffers(t *testing.T) {
	for _, size := range []image.Point{{0, 0}, {0, 5}, {5, 0}} {
		b := New(size.X, size.Y)
		require.Equal(t, size.X, b.Width())
		require.Equal(t, size.Y, b.Height())
		require.Equal(t, image.Rect(0, 0, size.X, size.Y), b.Image().Bounds())
	}
}

func TestOutOfRangePanics(t *testing.T) {
	b := New(2, 2)
	require.Panics(t, func() { b.At(2, 0) })
	require.Panics(t, func() { b.At(0, -1) })
	require.Panics(t, func() { b.Set(-1, 0, color.NRGBA{}) })
	require.Panics(t, func() { b.Row(2) })
	require.Panics(t, func() { New(-1, 1) })
}

func TestRowWritesThrough(t *testing.T) {
	b := New(2, 2)
	red := color.NRGBA{R: 255, A: 255}
	b.Row(1)[0] = red
	require.Equal(t, red, b.At(0, 1))
	require.Equal(t, color.NRGBA{}, b.At(0, 0))

	// rows cannot be grown into their neighbours
	row := b.Row(0)
	require.Equal(t, 2, cap(row))
}

func TestFromImageNRGBAIsExact(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	half := color.NRGBA{R: 255, G: 10, B: 3, A: 128}
	src.SetNRGBA(10, 20, half)
	src.SetNRGBA(11, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 0})

	b := FromImage(src)
	require.Equal(t, 2, b.Width())
	require.Equal(t, 1, b.Height())
	require.Equal(t, half, b.At(0, 0))
	require.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0}, b.At(1, 0))
}

func TestFromImageAddsAlpha(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 1, 1))
	src.SetGray(0, 0, color.Gray{Y: 77})
	b := FromImage(src)
	require.Equal(t, color.NRGBA{R: 77, G: 77, B: 77, A: 255}, b.At(0, 0))

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetRGBA(0, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	b = FromImage(rgba)
	require.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, b.At(0, 0))
}

func TestImageRoundTrip(t *testing.T) {
	b := New(3, 2)
	b.Set(2, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 6})
	b.Set(0, 0, color.NRGBA{R: 255, A: 255})

	back := FromImage(b.Image())
	require.True(t, b.Equal(back))
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(1, 1)
	c := b.Clone()
	c.Fill(color.NRGBA{B: 255, A: 255})
	require.False(t, b.Equal(c))
	require.Equal(t, color.NRGBA{}, b.At(0, 0))
}
