// Package icc reads the fixed-size header of ICC color profiles found in
// image files, enough to describe a profile and decide whether it can travel
// with an RGB image.
package icc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// HeaderSize is the length of the fixed profile header.
const HeaderSize = 128

// MaxSize bounds the profiles this package accepts.
const MaxSize = 4 << 20

var errShort = errors.New("icc: profile shorter than its 128-byte header")

// Signature is a four-character ICC tag such as "RGB " or "mntr".
type Signature [4]byte

func (s Signature) String() string {
	return strings.TrimRight(string(s[:]), " \x00")
}

// Color space signatures.
var (
	SpaceRGB  = Signature{'R', 'G', 'B', ' '}
	SpaceGray = Signature{'G', 'R', 'A', 'Y'}
	SpaceCMYK = Signature{'C', 'M', 'Y', 'K'}
)

var spaceNames = map[string]string{
	"RGB ": "RGB",
	"GRAY": "Grayscale",
	"CMYK": "CMYK",
	"Lab ": "CIELAB",
	"XYZ ": "CIEXYZ",
}

var classNames = map[string]string{
	"mntr": "display",
	"scnr": "input",
	"prtr": "output",
	"link": "device link",
	"spac": "color space",
	"abst": "abstract",
	"nmcl": "named color",
}

// Header holds the header fields recolor reports.
type Header struct {
	Size       uint32
	Major      uint8
	Minor      uint8
	Bugfix     uint8
	Class      Signature
	ColorSpace Signature
	PCS        Signature
}

// ReadHeader validates the 'acsp' magic and declared size of profile and
// decodes its header.
func ReadHeader(profile []byte) (*Header, error) {
	if len(profile) < HeaderSize {
		return nil, errShort
	}
	if len(profile) > MaxSize {
		return nil, fmt.Errorf("icc: profile of %d bytes exceeds %d", len(profile), MaxSize)
	}
	if magic := string(profile[36:40]); magic != "acsp" {
		return nil, fmt.Errorf("icc: bad magic %q", magic)
	}

	h := &Header{
		Size:   binary.BigEndian.Uint32(profile[0:4]),
		Major:  profile[8],
		Minor:  profile[9] >> 4,
		Bugfix: profile[9] & 0x0f,
	}
	copy(h.Class[:], profile[12:16])
	copy(h.ColorSpace[:], profile[16:20])
	copy(h.PCS[:], profile[20:24])

	if h.Size < HeaderSize || int64(h.Size) > int64(len(profile)) {
		return nil, fmt.Errorf("icc: header declares %d bytes, have %d", h.Size, len(profile))
	}
	return h, nil
}

// Version returns the profile version as major.minor.bugfix.
func (h *Header) Version() string {
	return fmt.Sprintf("%d.%d.%d", h.Major, h.Minor, h.Bugfix)
}

// IsRGB reports whether the profile describes RGB device values, the only
// kind recolor writes.
func (h *Header) IsRGB() bool {
	return h.ColorSpace == SpaceRGB
}

// Describe summarises the header in one line, e.g.
// "RGB display profile v4.3.0, PCS CIEXYZ".
func (h *Header) Describe() string {
	return fmt.Sprintf("%s %s profile v%s, PCS %s",
		lookup(spaceNames, h.ColorSpace), lookup(classNames, h.Class), h.Version(), lookup(spaceNames, h.PCS))
}

func lookup(names map[string]string, s Signature) string {
	if name, ok := names[string(s[:])]; ok {
		return name
	}
	return fmt.Sprintf("%q", s.String())
}
