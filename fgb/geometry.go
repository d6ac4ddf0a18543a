package fgb

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
)

// geometryFromFGB converts a FlatGeobuf geometry to an orb.Geometry. It
// returns nil for geometry types orb cannot represent.
func geometryFromFGB(g *flattypes.Geometry) orb.Geometry {
	if g == nil {
		return nil
	}

	switch g.Type() {
	case flattypes.GeometryTypePoint:
		if g.XyLength() < 2 {
			return nil
		}
		return orb.Point{g.Xy(0), g.Xy(1)}

	case flattypes.GeometryTypeMultiPoint:
		return orb.MultiPoint(readPoints(g, 0, g.XyLength()/2))

	case flattypes.GeometryTypeLineString:
		return orb.LineString(readPoints(g, 0, g.XyLength()/2))

	case flattypes.GeometryTypeMultiLineString:
		parts := readParts(g)
		mls := make(orb.MultiLineString, len(parts))
		for i, p := range parts {
			mls[i] = orb.LineString(p)
		}
		return mls

	case flattypes.GeometryTypePolygon:
		return readPolygon(g)

	case flattypes.GeometryTypeMultiPolygon:
		n := g.PartsLength()
		if n == 0 {
			// a single polygon stored inline
			return orb.MultiPolygon{readPolygon(g)}
		}
		mp := make(orb.MultiPolygon, 0, n)
		for i := 0; i < n; i++ {
			var part flattypes.Geometry
			if g.Parts(&part, i) {
				mp = append(mp, readPolygon(&part))
			}
		}
		return mp

	case flattypes.GeometryTypeGeometryCollection:
		n := g.PartsLength()
		coll := make(orb.Collection, 0, n)
		for i := 0; i < n; i++ {
			var part flattypes.Geometry
			if !g.Parts(&part, i) {
				continue
			}
			if child := geometryFromFGB(&part); child != nil {
				coll = append(coll, child)
			}
		}
		return coll

	default:
		return nil
	}
}

// readPoints reads coordinate pairs [start, end) from the xy vector.
func readPoints(g *flattypes.Geometry, start, end int) []orb.Point {
	if n := g.XyLength() / 2; end > n {
		end = n
	}
	if start >= end {
		return []orb.Point{}
	}

	pts := make([]orb.Point, 0, end-start)
	for i := start; i < end; i++ {
		pts = append(pts, orb.Point{g.Xy(2 * i), g.Xy(2*i + 1)})
	}
	return pts
}

// readParts splits the xy vector at the ends vector. Without ends, all
// coordinates form a single part.
func readParts(g *flattypes.Geometry) [][]orb.Point {
	total := g.XyLength() / 2
	n := g.EndsLength()
	if n == 0 {
		if total == 0 {
			return nil
		}
		return [][]orb.Point{readPoints(g, 0, total)}
	}

	parts := make([][]orb.Point, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := int(g.Ends(i))
		parts = append(parts, readPoints(g, start, end))
		start = end
	}
	return parts
}

func readPolygon(g *flattypes.Geometry) orb.Polygon {
	parts := readParts(g)
	poly := make(orb.Polygon, len(parts))
	for i, p := range parts {
		poly[i] = orb.Ring(p)
	}
	return poly
}
