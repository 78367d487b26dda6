package png

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	stdpng "image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, A: 100})
	var buf bytes.Buffer
	require.NoError(t, stdpng.Encode(&buf, img))
	return buf.Bytes()
}

func TestEmbedAndExtract(t *testing.T) {
	data := encodeTestPNG(t)
	profile := bytes.Repeat([]byte("profile bytes "), 64)

	withICC, err := EmbedICC(data, "sRGB IEC61966-2.1", profile)
	require.NoError(t, err)

	name, got, err := ExtractICC(withICC)
	require.NoError(t, err)
	require.Equal(t, "sRGB IEC61966-2.1", name)
	require.Equal(t, profile, got)

	// iCCP sits between IHDR and the image data.
	list, err := chunks(withICC)
	require.NoError(t, err)
	require.Equal(t, "IHDR", list[0].typ)
	require.Equal(t, "iCCP", list[1].typ)

	// The standard decoder verifies every CRC and must still accept it.
	img, err := stdpng.Decode(bytes.NewReader(withICC))
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 200, A: 100}, img.(*image.NRGBA).NRGBAAt(1, 1))
}

func TestEmbedDefaultName(t *testing.T) {
	withICC, err := EmbedICC(encodeTestPNG(t), "", []byte{1, 2, 3})
	require.NoError(t, err)

	name, got, err := ExtractICC(withICC)
	require.NoError(t, err)
	require.Equal(t, DefaultProfileName, name)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestEmbedErrors(t *testing.T) {
	data := encodeTestPNG(t)

	_, err := EmbedICC(data, "x", nil)
	require.Error(t, err)

	_, err = EmbedICC(data, string(bytes.Repeat([]byte("n"), 80)), []byte{1})
	require.ErrorContains(t, err, "invalid iCCP profile name")

	_, err = EmbedICC([]byte("GIF89a"), "x", []byte{1})
	require.ErrorIs(t, err, errNotPNG)

	once, err := EmbedICC(data, "x", []byte{1})
	require.NoError(t, err)
	_, err = EmbedICC(once, "y", []byte{2})
	require.ErrorContains(t, err, "already has an iCCP chunk")
}

func TestExtractNone(t *testing.T) {
	name, profile, err := ExtractICC(encodeTestPNG(t))
	require.NoError(t, err)
	require.Empty(t, name)
	require.Nil(t, profile)
}

func TestExtractMalformed(t *testing.T) {
	data := encodeTestPNG(t)
	ihdrEnd := len(signature) + 8 + 13 + 4

	insert := func(body []byte) []byte {
		out := append([]byte(nil), data[:ihdrEnd]...)
		out = appendChunk(out, "iCCP", body)
		return append(out, data[ihdrEnd:]...)
	}

	tests := map[string][]byte{
		"no terminator":       []byte("name"),
		"empty name":          {0, 0, 0x78, 0x9c},
		"unknown method":      append([]byte("n\x00"), 1, 0x78, 0x9c),
		"not zlib":            append([]byte("n\x00"), 0, 'x', 'y'),
		"missing method byte": []byte("n\x00"),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ExtractICC(insert(body))
			require.Error(t, err)
		})
	}
}

func TestChunksTruncated(t *testing.T) {
	data := encodeTestPNG(t)
	_, err := chunks(data[:len(signature)+4])
	require.Error(t, err)

	bad := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(bad[len(signature):], 1<<30)
	_, err = chunks(bad)
	require.ErrorContains(t, err, "overruns")
}
