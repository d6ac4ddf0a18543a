// Package wkbstat computes scalar properties of Well-Known Binary geometries
// (type name, vertex count, ring count) by walking the binary layout directly,
// without decoding into orb.Geometry values.
//
// Input buffers use the little-endian layout with the leading byte-order
// marker already consumed: every geometry value starts with its 4-byte type
// tag. Use Normalize to obtain that layout from standard WKB.
package wkbstat

import (
	"errors"
	"fmt"
)

// Common errors returned by this package.
var (
	ErrNilGeometry       = errors.New("wkbstat: nil geometry")
	ErrUnsupportedType   = errors.New("wkbstat: unsupported geometry type")
	ErrOutOfBounds       = errors.New("wkbstat: read out of bounds")
	ErrInvalidByteOrder  = errors.New("wkbstat: invalid byte order")
	ErrDuplicateFunction = errors.New("wkbstat: function already registered")
	ErrUnknownFunction   = errors.New("wkbstat: unknown function")
)

// UnsupportedTypeError reports a type tag the extractor cannot handle.
type UnsupportedTypeError struct {
	Code uint32
}

func (e *UnsupportedTypeError) Error() string {
	if GeometryType(e.Code).Valid() {
		return fmt.Sprintf("wkbstat: unsupported geometry type %s (%d)", GeometryType(e.Code), e.Code)
	}
	return fmt.Sprintf("wkbstat: unsupported geometry type %d", e.Code)
}

// Is reports whether target is ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// OutOfBoundsError reports a read of Need bytes at Offset in a buffer of
// length Len.
type OutOfBoundsError struct {
	Offset int
	Need   uint64
	Len    int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("wkbstat: read of %d bytes at offset %d exceeds buffer length %d", e.Need, e.Offset, e.Len)
}

// Is reports whether target is ErrOutOfBounds.
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
