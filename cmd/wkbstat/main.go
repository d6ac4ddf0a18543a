// Command wkbstat evaluates geometry functions (geometry-type, st-n-points,
// st-n-rings) over WKB values from the command line or from FlatGeobuf,
// GeoPackage and GeoJSON files.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb/geojson"

	wkbstat "github.com/tingold/orb-wkbstat"
	"github.com/tingold/orb-wkbstat/column"
	"github.com/tingold/orb-wkbstat/fgb"
	"github.com/tingold/orb-wkbstat/gpkg"
)

// CLI defines the command-line interface for wkbstat.
type CLI struct {
	Functions FunctionsCmd `cmd:"" help:"List available functions"`
	Eval      EvalCmd      `cmd:"" help:"Evaluate a function on hex-encoded WKB"`
	Scan      ScanCmd      `cmd:"" help:"Evaluate a function on every geometry in a file"`
}

// Globals are bound into every command's Run method.
type Globals struct {
	Out      io.Writer
	Log      *log.Logger
	Registry *wkbstat.Registry
}

// FunctionsCmd lists the registered functions.
type FunctionsCmd struct{}

func (c *FunctionsCmd) Run(g *Globals) error {
	for _, name := range g.Registry.Names() {
		fn, err := g.Registry.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.Out, "%s\t%s\n", name, fn.Result())
	}
	return nil
}

// EvalCmd evaluates a function on a single WKB value.
type EvalCmd struct {
	Function string `arg:"" help:"Function identifier"`
	Hex      string `arg:"" name:"hex" help:"Hex-encoded WKB (either byte order)"`
}

func (c *EvalCmd) Run(g *Globals) error {
	fn, err := g.Registry.Lookup(c.Function)
	if err != nil {
		return err
	}

	data, err := hex.DecodeString(strings.TrimSpace(c.Hex))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	buf, err := wkbstat.Normalize(data)
	if err != nil {
		return err
	}

	v, err := fn.Evaluate(buf, 0)
	if err != nil {
		return err
	}
	fmt.Fprintln(g.Out, v)
	return nil
}

// ScanCmd evaluates a function on every geometry of a file.
type ScanCmd struct {
	Function string `arg:"" help:"Function identifier"`
	Path     string `arg:"" type:"existingfile" help:"FlatGeobuf (.fgb), GeoPackage (.gpkg) or GeoJSON (.geojson, .json) file"`
	Layer    string `name:"layer" env:"WKBSTAT_LAYER" help:"GeoPackage table to read (default: the only layer)"`
	Strict   bool   `name:"strict" env:"WKBSTAT_STRICT" help:"Fail on the first geometry that cannot be evaluated"`
}

func (c *ScanCmd) Run(g *Globals) error {
	fn, err := g.Registry.Lookup(c.Function)
	if err != nil {
		return err
	}

	geoms, err := c.load(context.Background())
	if err != nil {
		return err
	}

	mem := memory.NewGoAllocator()
	col := column.FromBytes(mem, geoms)
	defer col.Release()

	opts := &column.Options{
		NullOnError: !c.Strict,
		OnError: func(row int, err error) {
			g.Log.Printf("row %d: %v", row, err)
		},
	}
	out, err := column.Evaluate(mem, fn, col, opts)
	if err != nil {
		return err
	}
	defer out.Release()

	for i := 0; i < out.Len(); i++ {
		fmt.Fprintf(g.Out, "%d\t%s\n", i, valueString(out, i))
	}
	return nil
}

func (c *ScanCmd) load(ctx context.Context) ([][]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(c.Path)); ext {
	case ".fgb":
		r, err := fgb.NewReader(c.Path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return r.Geometries()

	case ".gpkg":
		pkg, err := gpkg.Open(c.Path)
		if err != nil {
			return nil, err
		}
		defer pkg.Close()

		layer, err := pkg.Layer(ctx, c.Layer)
		if err != nil {
			return nil, err
		}
		var geoms [][]byte
		err = pkg.Scan(ctx, layer, func(_ int64, geom []byte) error {
			geoms = append(geoms, geom)
			return nil
		})
		return geoms, err

	case ".geojson", ".json":
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return nil, err
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		geoms := make([][]byte, len(fc.Features))
		for i, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			if geoms[i], err = wkbstat.Encode(f.Geometry); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		}
		return geoms, nil

	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

func valueString(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return "null"
	}
	return arr.ValueStr(i)
}

func run(args []string, out io.Writer, logger *log.Logger) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("wkbstat"),
		kong.Description("Compute scalar properties of WKB geometries"),
		kong.UsageOnError(),
		kong.Writers(out, out),
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return ctx.Run(&Globals{
		Out:      out,
		Log:      logger,
		Registry: wkbstat.DefaultRegistry(),
	})
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	if err := run(os.Args[1:], os.Stdout, log.Default()); err != nil {
		log.Fatal(err)
	}
}
