// Package gpkg reads geometry columns of GeoPackage files as a source of
// geometry buffers for wkbstat.
package gpkg

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	wkbstat "github.com/tingold/orb-wkbstat"
)

const driverName = "sqlite"

// Errors returned while parsing GeoPackage geometry blobs.
var (
	ErrInvalidMagic   = errors.New("gpkg: invalid geometry magic")
	ErrInvalidHeader  = errors.New("gpkg: invalid geometry header")
	ErrUnknownLayer   = errors.New("gpkg: unknown layer")
	ErrExtendedFormat = errors.New("gpkg: extended geometry format not supported")
)

// Layer describes a geometry column registered in gpkg_geometry_columns.
type Layer struct {
	Table        string // Feature table name
	Column       string // Geometry column name
	GeometryType string // Declared geometry type (POINT, POLYGON, etc.)
	SRID         int    // Spatial reference id
}

// Package is an open GeoPackage.
type Package struct {
	db *sql.DB
}

// Open opens the GeoPackage at path read-only.
func Open(path string) (*Package, error) {
	db, err := sql.Open(driverName, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("gpkg: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("gpkg: open %s: %w", path, err)
	}
	return &Package{db: db}, nil
}

// Close closes the underlying database.
func (p *Package) Close() error {
	return p.db.Close()
}

// Layers returns the registered geometry columns ordered by table name.
func (p *Package) Layers(ctx context.Context) ([]Layer, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT table_name, column_name, geometry_type_name, srs_id
		 FROM gpkg_geometry_columns ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("gpkg: listing layers: %w", err)
	}
	defer rows.Close()

	var layers []Layer
	for rows.Next() {
		var l Layer
		if err := rows.Scan(&l.Table, &l.Column, &l.GeometryType, &l.SRID); err != nil {
			return nil, fmt.Errorf("gpkg: listing layers: %w", err)
		}
		layers = append(layers, l)
	}
	return layers, rows.Err()
}

// Layer returns the layer for table, or the only layer when table is empty.
func (p *Package) Layer(ctx context.Context, table string) (Layer, error) {
	layers, err := p.Layers(ctx)
	if err != nil {
		return Layer{}, err
	}
	if table == "" && len(layers) == 1 {
		return layers[0], nil
	}
	for _, l := range layers {
		if l.Table == table {
			return l, nil
		}
	}
	return Layer{}, fmt.Errorf("%w: %q", ErrUnknownLayer, table)
}

// Scan calls fn with the feature id and normalized geometry of every row of
// layer, in rowid order. Empty geometries are passed as nil; rows with a NULL
// geometry are skipped.
func (p *Package) Scan(ctx context.Context, layer Layer, fn func(fid int64, geom []byte) error) error {
	query := fmt.Sprintf(`SELECT rowid, %s FROM %s WHERE %s IS NOT NULL ORDER BY rowid`,
		quote(layer.Column), quote(layer.Table), quote(layer.Column))

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("gpkg: scanning %s: %w", layer.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var fid int64
		var blob []byte
		if err := rows.Scan(&fid, &blob); err != nil {
			return fmt.Errorf("gpkg: scanning %s: %w", layer.Table, err)
		}

		geom, err := ParseGeometry(blob)
		if err != nil {
			return fmt.Errorf("gpkg: %s row %d: %w", layer.Table, fid, err)
		}
		if err := fn(fid, geom); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ParseGeometry strips the GeoPackage binary header from blob and returns the
// geometry in normalized WKB layout, or nil for an empty geometry.
func ParseGeometry(blob []byte) ([]byte, error) {
	if len(blob) < 8 {
		return nil, ErrInvalidHeader
	}
	if blob[0] != 'G' || blob[1] != 'P' {
		return nil, ErrInvalidMagic
	}

	flags := blob[3]
	if flags&0x20 != 0 {
		return nil, ErrExtendedFormat
	}
	if flags&0x10 != 0 {
		return nil, nil
	}

	var envelope int
	switch (flags >> 1) & 0x07 {
	case 0:
		envelope = 0
	case 1:
		envelope = 32
	case 2, 3:
		envelope = 48
	case 4:
		envelope = 64
	default:
		return nil, fmt.Errorf("%w: envelope indicator %d", ErrInvalidHeader, (flags>>1)&0x07)
	}

	start := 8 + envelope
	if len(blob) <= start {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrInvalidHeader, len(blob), start)
	}
	return wkbstat.Normalize(blob[start:])
}

// SRID returns the spatial reference id stored in a geometry blob header.
func SRID(blob []byte) (int32, error) {
	if len(blob) < 8 || blob[0] != 'G' || blob[1] != 'P' {
		return 0, ErrInvalidMagic
	}

	var order binary.ByteOrder = binary.BigEndian
	if blob[3]&0x01 != 0 {
		order = binary.LittleEndian
	}
	return int32(order.Uint32(blob[4:8])), nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
