package wkbstat

import "github.com/paulmach/orb"

// GeometryType is a WKB geometry type code.
type GeometryType uint32

// The closed set of supported type codes.
const (
	Point              GeometryType = 1
	LineString         GeometryType = 2
	Polygon            GeometryType = 3
	MultiPoint         GeometryType = 4
	MultiLineString    GeometryType = 5
	MultiPolygon       GeometryType = 6
	GeometryCollection GeometryType = 7
)

var typeNames = [...]string{
	Point:              "Point",
	LineString:         "LineString",
	Polygon:            "Polygon",
	MultiPoint:         "MultiPoint",
	MultiLineString:    "MultiLineString",
	MultiPolygon:       "MultiPolygon",
	GeometryCollection: "GeometryCollection",
}

// Valid reports whether t is one of the supported type codes.
func (t GeometryType) Valid() bool {
	return t >= Point && t <= GeometryCollection
}

// String returns the canonical geometry type name, or "Unknown".
func (t GeometryType) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return typeNames[t]
}

// resolveTag reads the type tag at offset.
func resolveTag(buf []byte, offset int) (GeometryType, error) {
	code, err := readUint32(buf, offset)
	if err != nil {
		return 0, err
	}
	t := GeometryType(code)
	if !t.Valid() {
		return 0, &UnsupportedTypeError{Code: code}
	}
	return t, nil
}

// TypeOf returns the WKB type of an orb.Geometry, or 0 if it has none.
func TypeOf(geom orb.Geometry) GeometryType {
	switch geom.(type) {
	case orb.Point:
		return Point
	case orb.MultiPoint:
		return MultiPoint
	case orb.LineString:
		return LineString
	case orb.MultiLineString:
		return MultiLineString
	case orb.Ring, orb.Polygon, orb.Bound:
		return Polygon
	case orb.MultiPolygon:
		return MultiPolygon
	case orb.Collection:
		return GeometryCollection
	default:
		return 0
	}
}
