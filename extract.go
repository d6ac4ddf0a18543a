package wkbstat

// GeometryTypeName returns the name of the geometry type whose tag starts at
// offset. Only the tag is read.
func GeometryTypeName(buf []byte, offset int) (string, error) {
	t, err := resolveTag(buf, offset)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// NumPoints returns the number of distinct vertices of the geometry at
// offset. Rings are stored closed, so each ring contributes one fewer vertex
// than it stores; line strings and multipoints are counted as stored.
//
// GeometryCollection values are not supported.
func NumPoints(buf []byte, offset int) (int, error) {
	t, err := resolveTag(buf, offset)
	if err != nil {
		return 0, err
	}
	offset += countSize

	switch t {
	case Point:
		if _, err := readPointBlock(buf, offset, 1); err != nil {
			return 0, err
		}
		return 1, nil

	case LineString, MultiPoint:
		n, _, err := readLineString(buf, offset)
		if err != nil {
			return 0, err
		}
		return n, nil

	case Polygon:
		_, vertices, _, err := readPolygon(buf, offset)
		if err != nil {
			return 0, err
		}
		return vertices, nil

	case MultiLineString:
		count, err := readUint32(buf, offset)
		if err != nil {
			return 0, err
		}
		offset += countSize

		total := 0
		for i := uint32(0); i < count; i++ {
			if offset, err = skip(buf, offset, subHeaderSize); err != nil {
				return 0, err
			}
			var n int
			if n, offset, err = readLineString(buf, offset); err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil

	case MultiPolygon:
		total := 0
		err := eachPolygon(buf, offset, func(_, vertices int) {
			total += vertices
		})
		if err != nil {
			return 0, err
		}
		return total, nil

	default:
		return 0, &UnsupportedTypeError{Code: uint32(t)}
	}
}

// NumRings returns the total number of rings of a Polygon or MultiPolygon.
// Ring bodies are walked so that a truncated buffer is reported.
func NumRings(buf []byte, offset int) (int, error) {
	t, err := resolveTag(buf, offset)
	if err != nil {
		return 0, err
	}
	offset += countSize

	switch t {
	case Polygon:
		rings, _, _, err := readPolygon(buf, offset)
		if err != nil {
			return 0, err
		}
		return rings, nil

	case MultiPolygon:
		total := 0
		err := eachPolygon(buf, offset, func(rings, _ int) {
			total += rings
		})
		if err != nil {
			return 0, err
		}
		return total, nil

	default:
		return 0, &UnsupportedTypeError{Code: uint32(t)}
	}
}

// readLineString reads a point count and its coordinate block at offset.
func readLineString(buf []byte, offset int) (points, next int, err error) {
	n, err := readUint32(buf, offset)
	if err != nil {
		return 0, 0, err
	}
	next, err = readPointBlock(buf, offset+countSize, n)
	if err != nil {
		return 0, 0, err
	}
	return int(n), next, nil
}

// readPolygon walks a polygon body (ring count, then rings) at offset and
// returns its ring count, its distinct vertex count, and the offset past it.
func readPolygon(buf []byte, offset int) (rings, vertices, next int, err error) {
	count, err := readUint32(buf, offset)
	if err != nil {
		return 0, 0, 0, err
	}
	offset += countSize

	for i := uint32(0); i < count; i++ {
		var n int
		if n, offset, err = readLineString(buf, offset); err != nil {
			return 0, 0, 0, err
		}
		// an empty ring has no closing point to drop
		if n > 0 {
			vertices += n - 1
		}
	}
	return int(count), vertices, offset, nil
}

// eachPolygon walks the elements of a MultiPolygon body at offset, calling fn
// with the ring and vertex counts of each polygon.
func eachPolygon(buf []byte, offset int, fn func(rings, vertices int)) error {
	count, err := readUint32(buf, offset)
	if err != nil {
		return err
	}
	offset += countSize

	for i := uint32(0); i < count; i++ {
		if offset, err = skip(buf, offset, subHeaderSize); err != nil {
			return err
		}
		var rings, vertices int
		if rings, vertices, offset, err = readPolygon(buf, offset); err != nil {
			return err
		}
		fn(rings, vertices)
	}
	return nil
}
