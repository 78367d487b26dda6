package jpeg

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	iccMarkerTag     = "ICC_PROFILE\x00"
	iccHeaderSize    = len(iccMarkerTag) + 2 // tag + seq + count
	maxChunkDataSize = 65535 - 2 - iccHeaderSize
	maxChunks        = 255
)

// ExtractICC reassembles an ICC profile from APP2 payloads, as returned by
// APP2Segments. Payloads that do not carry the ICC tag are ignored. It
// returns nil, nil when no profile is present.
func ExtractICC(markers [][]byte) ([]byte, error) {
	var parts [maxChunks + 1][]byte // indexed by 1-based sequence number
	total, found := 0, 0

	for _, m := range markers {
		if len(m) < iccHeaderSize || !bytes.HasPrefix(m, []byte(iccMarkerTag)) {
			continue
		}
		seq, count := int(m[12]), int(m[13])
		switch {
		case seq == 0 || seq > count:
			return nil, fmt.Errorf("invalid ICC chunk sequence %d/%d", seq, count)
		case total != 0 && count != total:
			return nil, fmt.Errorf("inconsistent ICC chunk count: %d vs %d", count, total)
		case parts[seq] != nil:
			return nil, fmt.Errorf("duplicate ICC chunk %d", seq)
		}
		total = count
		parts[seq] = m[iccHeaderSize:]
		found++
	}

	if found == 0 {
		return nil, nil
	}
	if found != total {
		return nil, fmt.Errorf("expected %d ICC chunks, found %d", total, found)
	}
	return bytes.Join(parts[1:total+1], nil), nil
}

// ChunkICC splits an ICC profile into APP2 payloads: the ICC tag, a
// 1-based sequence number, the chunk count, then the profile bytes.
func ChunkICC(profile []byte) ([][]byte, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty ICC profile")
	}

	n := (len(profile) + maxChunkDataSize - 1) / maxChunkDataSize
	if n > maxChunks {
		return nil, fmt.Errorf("ICC profile too large: needs %d chunks (max %d)", n, maxChunks)
	}

	chunks := make([][]byte, 0, n)
	for i := range n {
		part := profile[i*maxChunkDataSize : min((i+1)*maxChunkDataSize, len(profile))]
		chunk := make([]byte, 0, iccHeaderSize+len(part))
		chunk = append(chunk, iccMarkerTag...)
		chunk = append(chunk, byte(i+1), byte(n))
		chunk = append(chunk, part...)
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// EmbedICC returns a copy of the JPEG stream data with profile stored in
// APP2 segments directly after the SOI marker.
func EmbedICC(data, profile []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0xff || data[1] != markerSOI {
		return nil, errors.New("not a JPEG stream (missing SOI)")
	}
	chunks, err := ChunkICC(profile)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(data)+len(profile)+len(chunks)*(4+iccHeaderSize))
	out = append(out, data[:2]...)
	for _, c := range chunks {
		size := len(c) + 2
		out = append(out, 0xff, markerAPP2, byte(size>>8), byte(size))
		out = append(out, c...)
	}
	return append(out, data[2:]...), nil
}
