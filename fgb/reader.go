// Package fgb reads FlatGeobuf files as a source of geometry buffers for
// wkbstat. Each feature's geometry is converted to the normalized WKB layout.
package fgb

import (
	"errors"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"

	wkbstat "github.com/tingold/orb-wkbstat"
)

// ErrNoIndex is returned when features cannot be enumerated because the file
// has no spatial index.
var ErrNoIndex = errors.New("fgb: file has no spatial index")

// Header contains metadata about a FlatGeobuf file.
type Header struct {
	Name          string     // Layer name
	GeometryType  string     // Geometry type ("Point", "Polygon", "Unknown", etc.)
	FeaturesCount uint64     // Number of features in the file
	Envelope      [4]float64 // Bounding box [minX, minY, maxX, maxY]
	HasIndex      bool       // Whether the file has a spatial index
}

// Feature is a single feature's geometry in normalized WKB layout. Geometry
// is nil when the feature has no geometry or one that cannot be encoded.
type Feature struct {
	Index    int
	Geometry []byte
}

// Reader provides read access to a FlatGeobuf file.
type Reader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// NewReader creates a reader from a file path.
// The file is memory-mapped for efficient access.
func NewReader(path string) (*Reader, error) {
	f, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}
	return &Reader{fgb: f}, nil
}

// NewReaderFromData creates a reader from byte data.
func NewReaderFromData(data []byte) (*Reader, error) {
	f, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &Reader{fgb: f}, nil
}

// Header returns metadata about the FlatGeobuf file.
func (r *Reader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
	}
	if h.EnvelopeLength() >= 4 {
		header.Envelope = [4]float64{h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3)}
	}
	return header
}

// Features returns every feature in spatial index order.
//
// The FlatGeobuf library only enumerates features through its spatial
// index, so files written without one yield ErrNoIndex.
func (r *Reader) Features() ([]Feature, error) {
	h := r.fgb.Header()
	if h.FeaturesCount() == 0 {
		return nil, nil
	}
	if h.IndexNodeSize() == 0 || h.EnvelopeLength() < 4 {
		return nil, ErrNoIndex
	}

	found, err := r.fgb.Search(h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3))
	if err != nil {
		return nil, err
	}

	features := make([]Feature, 0, len(found))
	for i, f := range found {
		features = append(features, Feature{Index: i, Geometry: encodeFeature(f)})
	}
	return features, nil
}

// Geometries returns the geometry buffer of every feature. Entries are nil
// for features without an encodable geometry.
func (r *Reader) Geometries() ([][]byte, error) {
	features, err := r.Features()
	if err != nil {
		return nil, err
	}

	geoms := make([][]byte, len(features))
	for i, f := range features {
		geoms[i] = f.Geometry
	}
	return geoms, nil
}

// Close releases resources associated with the reader.
func (r *Reader) Close() error {
	// FlatGeoBuf has no Close; dropping the reference lets the mapping be
	// collected.
	r.fgb = nil
	return nil
}

func encodeFeature(f *flattypes.Feature) []byte {
	if f == nil {
		return nil
	}

	var obj flattypes.Geometry
	geom := geometryFromFGB(f.Geometry(&obj))
	if geom == nil {
		return nil
	}

	buf, err := wkbstat.Encode(geom)
	if err != nil {
		return nil
	}
	return buf
}
