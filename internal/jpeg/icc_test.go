package jpeg

import (
	"bytes"
	"image"
	"image/color"
	stdjpeg "image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeTestJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, stdjpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func fakeProfile(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i * 7)
	}
	return p
}

func TestChunkICCSplitsLargeProfiles(t *testing.T) {
	profile := fakeProfile(2*maxChunkDataSize + 10)
	chunks, err := ChunkICC(profile)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		require.Equal(t, iccMarkerTag, string(c[:12]))
		require.Equal(t, byte(i+1), c[12])
		require.Equal(t, byte(3), c[13])
		require.LessOrEqual(t, len(c)+2, 65535)
	}
	require.Len(t, chunks[2], iccHeaderSize+10)

	got, err := ExtractICC(chunks)
	require.NoError(t, err)
	require.Equal(t, profile, got)
}

func TestChunkICCErrors(t *testing.T) {
	_, err := ChunkICC(nil)
	require.Error(t, err)

	_, err = ChunkICC(make([]byte, maxChunks*maxChunkDataSize+1))
	require.ErrorContains(t, err, "too large")
}

func TestExtractICCOutOfOrder(t *testing.T) {
	profile := fakeProfile(maxChunkDataSize + 100)
	chunks, err := ChunkICC(profile)
	require.NoError(t, err)

	other := []byte("XMP stuff, not an ICC chunk")
	got, err := ExtractICC([][]byte{chunks[1], other, chunks[0]})
	require.NoError(t, err)
	require.Equal(t, profile, got)
}

func TestExtractICCErrors(t *testing.T) {
	chunks, err := ChunkICC(fakeProfile(2*maxChunkDataSize + 1))
	require.NoError(t, err)

	_, err = ExtractICC(chunks[:2])
	require.ErrorContains(t, err, "expected 3 ICC chunks")

	_, err = ExtractICC([][]byte{chunks[0], chunks[0], chunks[1]})
	require.ErrorContains(t, err, "duplicate")

	bad := append([]byte(nil), chunks[0]...)
	bad[12] = 0
	_, err = ExtractICC([][]byte{bad})
	require.ErrorContains(t, err, "invalid ICC chunk sequence")

	mixed := append([]byte(nil), chunks[1]...)
	mixed[13] = 5
	_, err = ExtractICC([][]byte{chunks[0], mixed})
	require.ErrorContains(t, err, "inconsistent")

	none, err := ExtractICC([][]byte{[]byte("short")})
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestEmbedICC(t *testing.T) {
	data := encodeTestJPEG(t)
	profile := fakeProfile(maxChunkDataSize + 3)

	withICC, err := EmbedICC(data, profile)
	require.NoError(t, err)

	segments, err := APP2Segments(withICC)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	got, err := ExtractICC(segments)
	require.NoError(t, err)
	require.Equal(t, profile, got)

	// The standard decoder must still accept the stream.
	img, err := stdjpeg.Decode(bytes.NewReader(withICC))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestEmbedICCRejectsNonJPEG(t *testing.T) {
	_, err := EmbedICC([]byte("\x89PNG"), fakeProfile(200))
	require.Error(t, err)
}
