// Package jpeg handles the JPEG marker segments the standard library
// decoder skips over, most importantly ICC profiles stored in APP2.
package jpeg

import (
	"errors"
	"fmt"
)

const (
	markerSOI  = 0xd8
	markerEOI  = 0xd9
	markerSOS  = 0xda
	markerAPP2 = 0xe2
	markerTEM  = 0x01
	markerRST0 = 0xd0
	markerRST7 = 0xd7
)

// APP2Segments returns the payloads of all APP2 segments that precede the
// first scan, in file order. The returned slices alias data.
func APP2Segments(data []byte) ([][]byte, error) {
	if len(data) < 2 || data[0] != 0xff || data[1] != markerSOI {
		return nil, errors.New("not a JPEG stream (missing SOI)")
	}

	var segments [][]byte
	pos := 2
	for {
		// Markers may be preceded by any number of 0xff fill bytes.
		for pos < len(data) && data[pos] == 0xff {
			pos++
		}
		if pos >= len(data) {
			return nil, errors.New("unexpected end of JPEG stream")
		}
		if data[pos-1] != 0xff {
			return nil, fmt.Errorf("expected marker at offset %d", pos)
		}
		marker := data[pos]
		pos++

		switch {
		case marker == markerSOS || marker == markerEOI:
			return segments, nil
		case marker == markerTEM || (marker >= markerRST0 && marker <= markerRST7):
			continue // standalone, no length
		}

		if pos+2 > len(data) {
			return nil, errors.New("truncated segment length")
		}
		size := int(data[pos])<<8 | int(data[pos+1])
		if size < 2 || pos+size > len(data) {
			return nil, fmt.Errorf("invalid segment length %d for marker 0x%02x", size, marker)
		}
		if marker == markerAPP2 {
			segments = append(segments, data[pos+2:pos+size])
		}
		pos += size
	}
}
