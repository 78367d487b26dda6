// Package png reads and writes the iCCP chunk, which the standard library
// PNG codec skips on decode and never emits.
package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

const signature = "\x89PNG\r\n\x1a\n"

// DefaultProfileName is written as the iCCP profile name when the source
// image did not name its profile.
const DefaultProfileName = "ICC Profile"

// maxProfileSize caps the inflated profile.
const maxProfileSize = 4 << 20

var errNotPNG = errors.New("not a PNG stream (bad signature)")

type chunk struct {
	typ  string
	data []byte
}

// chunks walks the chunk list up to and including IDAT or IEND. CRCs are
// not verified; the image decoder has already done so.
func chunks(data []byte) ([]chunk, error) {
	if !bytes.HasPrefix(data, []byte(signature)) {
		return nil, errNotPNG
	}
	var out []chunk
	for pos := len(signature); ; {
		if pos+8 > len(data) {
			return nil, errors.New("truncated chunk header")
		}
		n := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		end := pos + 8 + n + 4
		if n < 0 || end > len(data) {
			return nil, fmt.Errorf("chunk %q overruns the stream", typ)
		}
		out = append(out, chunk{typ: typ, data: data[pos+8 : pos+8+n]})
		if typ == "IDAT" || typ == "IEND" {
			return out, nil
		}
		pos = end
	}
}

// ExtractICC returns the profile name and inflated profile stored in the
// iCCP chunk of a PNG stream. It returns "", nil, nil when there is none.
func ExtractICC(data []byte) (string, []byte, error) {
	list, err := chunks(data)
	if err != nil {
		return "", nil, err
	}
	for _, c := range list {
		if c.typ != "iCCP" {
			continue
		}
		name, rest, ok := bytes.Cut(c.data, []byte{0})
		if !ok || len(name) == 0 || len(name) > 79 || len(rest) < 1 {
			return "", nil, errors.New("malformed iCCP chunk")
		}
		if rest[0] != 0 {
			return "", nil, fmt.Errorf("unknown iCCP compression method %d", rest[0])
		}
		zr, err := zlib.NewReader(bytes.NewReader(rest[1:]))
		if err != nil {
			return "", nil, fmt.Errorf("inflating iCCP: %w", err)
		}
		defer zr.Close()
		profile, err := io.ReadAll(io.LimitReader(zr, maxProfileSize+1))
		if err != nil {
			return "", nil, fmt.Errorf("inflating iCCP: %w", err)
		}
		if len(profile) > maxProfileSize {
			return "", nil, fmt.Errorf("iCCP profile exceeds %d bytes", maxProfileSize)
		}
		return string(name), profile, nil
	}
	return "", nil, nil
}

// EmbedICC returns a copy of the PNG stream data with an iCCP chunk holding
// profile inserted right after IHDR. An empty name becomes
// DefaultProfileName.
func EmbedICC(data []byte, name string, profile []byte) ([]byte, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty ICC profile")
	}
	if name == "" {
		name = DefaultProfileName
	}
	if len(name) > 79 || bytes.IndexByte([]byte(name), 0) >= 0 {
		return nil, fmt.Errorf("invalid iCCP profile name %q", name)
	}

	list, err := chunks(data)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 || list[0].typ != "IHDR" {
		return nil, errors.New("PNG stream does not start with IHDR")
	}
	for _, c := range list {
		if c.typ == "iCCP" {
			return nil, errors.New("PNG stream already has an iCCP chunk")
		}
	}

	var body bytes.Buffer
	body.WriteString(name)
	body.Write([]byte{0, 0}) // name terminator, deflate
	zw, err := zlib.NewWriterLevel(&body, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(profile); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	ihdrEnd := len(signature) + 8 + len(list[0].data) + 4
	out := make([]byte, 0, len(data)+body.Len()+12)
	out = append(out, data[:ihdrEnd]...)
	out = appendChunk(out, "iCCP", body.Bytes())
	return append(out, data[ihdrEnd:]...), nil
}

func appendChunk(dst []byte, typ string, data []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	start := len(dst)
	dst = append(dst, typ...)
	dst = append(dst, data...)
	return binary.BigEndian.AppendUint32(dst, crc32.ChecksumIEEE(dst[start:]))
}
