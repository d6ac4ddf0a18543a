package wkbstat

import "encoding/binary"

const (
	countSize     = 4
	pointSize     = 16 // x, y as float64
	subHeaderSize = 5  // byte order + nested type tag
)

// readUint32 reads the little-endian uint32 at offset.
func readUint32(buf []byte, offset int) (uint32, error) {
	if err := check(buf, offset, countSize); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[offset:]), nil
}

// readPointBlock validates count coordinate pairs starting at offset and
// returns the offset just past them.
func readPointBlock(buf []byte, offset int, count uint32) (int, error) {
	need := uint64(count) * pointSize
	if err := check(buf, offset, need); err != nil {
		return 0, err
	}
	return offset + int(need), nil
}

// skip validates n bytes at offset and returns the offset past them.
func skip(buf []byte, offset int, n int) (int, error) {
	if err := check(buf, offset, uint64(n)); err != nil {
		return 0, err
	}
	return offset + n, nil
}

func check(buf []byte, offset int, need uint64) error {
	if offset < 0 || offset > len(buf) || uint64(len(buf)-offset) < need {
		return &OutOfBoundsError{Offset: offset, Need: need, Len: len(buf)}
	}
	return nil
}
