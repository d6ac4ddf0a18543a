package wkbstat

import (
	"encoding/binary"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// WKB byte order markers.
const (
	bigEndian    byte = 0 // XDR
	littleEndian byte = 1 // NDR
)

// Normalize converts standard WKB into the layout the extractors read: little
// endian with the leading byte order marker removed. Little endian input is
// returned as a subslice of data without copying.
func Normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, &OutOfBoundsError{Offset: 0, Need: 1, Len: 0}
	}

	switch data[0] {
	case littleEndian:
		return data[1:], nil
	case bigEndian:
		geom, err := wkb.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("wkbstat: decoding big endian wkb: %w", err)
		}
		return Encode(geom)
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidByteOrder, data[0])
	}
}

// Encode marshals geom into the layout the extractors read.
func Encode(geom orb.Geometry) ([]byte, error) {
	if geom == nil {
		return nil, ErrNilGeometry
	}
	if TypeOf(geom) == 0 {
		return nil, ErrUnsupportedType
	}

	data, err := wkb.Marshal(geom, binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	return data[1:], nil
}
