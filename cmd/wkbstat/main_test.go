package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wkbstat "github.com/tingold/orb-wkbstat"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	err := run(args, &out, log.New(&logs, "", 0))
	return out.String(), logs.String(), err
}

func hexWKB(t *testing.T, geom orb.Geometry, order binary.ByteOrder) string {
	t.Helper()

	data, err := wkb.Marshal(geom, order)
	require.NoError(t, err)
	return hex.EncodeToString(data)
}

func TestFunctions(t *testing.T) {
	out, _, err := runCLI(t, "functions")
	require.NoError(t, err)

	assert.Equal(t, "geometry-type\tstring\nst-n-points\tint64\nst-n-rings\tint64\n", out)
}

func TestEval(t *testing.T) {
	poly := orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{2, 2}, {8, 2}, {8, 8}, {2, 2}},
	}

	tests := []struct {
		name     string
		function string
		order    binary.ByteOrder
		expected string
	}{
		{"TypeLittleEndian", wkbstat.FuncGeometryType, binary.LittleEndian, "Polygon\n"},
		{"PointsLittleEndian", wkbstat.FuncNPoints, binary.LittleEndian, "7\n"},
		{"RingsBigEndian", wkbstat.FuncNRings, binary.BigEndian, "2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, "eval", tt.function, hexWKB(t, poly, tt.order))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	point := hexWKB(t, orb.Point{1, 2}, binary.LittleEndian)

	_, _, err := runCLI(t, "eval", "st-area", point)
	assert.ErrorIs(t, err, wkbstat.ErrUnknownFunction)

	_, _, err = runCLI(t, "eval", wkbstat.FuncNRings, point)
	assert.ErrorIs(t, err, wkbstat.ErrUnsupportedType)

	_, _, err = runCLI(t, "eval", wkbstat.FuncNPoints, "zz")
	assert.Error(t, err)
}

func writeGeoJSON(t *testing.T) string {
	t.Helper()

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	fc.Append(geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}))
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}, {2, 2}}))

	data, err := fc.MarshalJSON()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "features.geojson")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestScan_GeoJSON(t *testing.T) {
	path := writeGeoJSON(t)

	out, _, err := runCLI(t, "scan", wkbstat.FuncNPoints, path)
	require.NoError(t, err)
	assert.Equal(t, "0\t1\n1\t4\n2\t3\n", out)

	out, _, err = runCLI(t, "scan", wkbstat.FuncGeometryType, path)
	require.NoError(t, err)
	assert.Equal(t, "0\tPoint\n1\tPolygon\n2\tLineString\n", out)
}

func TestScan_NullOnError(t *testing.T) {
	path := writeGeoJSON(t)

	out, logs, err := runCLI(t, "scan", wkbstat.FuncNRings, path)
	require.NoError(t, err)
	assert.Equal(t, "0\tnull\n1\t1\n2\tnull\n", out)
	assert.Contains(t, logs, "row 0:")
	assert.Contains(t, logs, "row 2:")
}

func TestScan_Strict(t *testing.T) {
	path := writeGeoJSON(t)

	_, _, err := runCLI(t, "scan", "--strict", wkbstat.FuncNRings, path)
	assert.ErrorIs(t, err, wkbstat.ErrUnsupportedType)
}

func TestScan_StrictFromEnv(t *testing.T) {
	path := writeGeoJSON(t)
	t.Setenv("WKBSTAT_STRICT", "true")

	_, _, err := runCLI(t, "scan", wkbstat.FuncNRings, path)
	assert.ErrorIs(t, err, wkbstat.ErrUnsupportedType)
}

func TestScan_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n"), 0o644))

	_, _, err := runCLI(t, "scan", wkbstat.FuncNPoints, path)
	assert.Error(t, err)
}

func TestScan_MissingFile(t *testing.T) {
	_, _, err := runCLI(t, "scan", wkbstat.FuncNPoints, filepath.Join(t.TempDir(), "missing.fgb"))
	assert.Error(t, err)
}
