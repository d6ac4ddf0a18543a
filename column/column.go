// Package column evaluates wkbstat functions over Arrow columns of geometry
// values in the normalized WKB layout.
package column

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	wkbstat "github.com/tingold/orb-wkbstat"
)

// Options configures column evaluation.
type Options struct {
	// NullOnError writes a null for rows that fail to decode instead of
	// aborting the evaluation.
	NullOnError bool

	// OnError, if set, is called for every row that fails to decode when
	// NullOnError is true.
	OnError func(row int, err error)
}

// DefaultOptions returns options that abort on the first decode error.
func DefaultOptions() *Options {
	return &Options{}
}

// RowError reports the row at which evaluation failed.
type RowError struct {
	Function string
	Row      int
	Err      error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("column: %s at row %d: %v", e.Function, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// binaryColumn is satisfied by *array.Binary and *array.LargeBinary.
type binaryColumn interface {
	arrow.Array
	Value(i int) []byte
}

// resultBuilder appends Values of a single ResultType.
type resultBuilder interface {
	append(v wkbstat.Value)
	appendNull()
	newArray() arrow.Array
	release()
}

type stringResults struct{ b *array.StringBuilder }

func (r stringResults) append(v wkbstat.Value) { r.b.Append(v.Str) }
func (r stringResults) appendNull()            { r.b.AppendNull() }
func (r stringResults) newArray() arrow.Array  { return r.b.NewArray() }
func (r stringResults) release()               { r.b.Release() }

type int64Results struct{ b *array.Int64Builder }

func (r int64Results) append(v wkbstat.Value) { r.b.Append(v.Int) }
func (r int64Results) appendNull()            { r.b.AppendNull() }
func (r int64Results) newArray() arrow.Array  { return r.b.NewArray() }
func (r int64Results) release()               { r.b.Release() }

func newResultBuilder(mem memory.Allocator, typ wkbstat.ResultType) (resultBuilder, error) {
	switch typ {
	case wkbstat.ResultString:
		return stringResults{b: array.NewStringBuilder(mem)}, nil
	case wkbstat.ResultInt64:
		return int64Results{b: array.NewInt64Builder(mem)}, nil
	default:
		return nil, fmt.Errorf("column: unsupported result type %v", typ)
	}
}

// DataType returns the Arrow type of fn's results.
func DataType(fn wkbstat.Function) arrow.DataType {
	if fn.Result() == wkbstat.ResultInt64 {
		return arrow.PrimitiveTypes.Int64
	}
	return arrow.BinaryTypes.String
}

// Evaluate applies fn to every row of col, which must be a Binary or
// LargeBinary array. Null rows stay null. The caller must release the
// returned array.
func Evaluate(mem memory.Allocator, fn wkbstat.Function, col arrow.Array, opts *Options) (arrow.Array, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	values, ok := col.(binaryColumn)
	if !ok {
		return nil, fmt.Errorf("column: expected binary column, got %s", col.DataType())
	}

	b, err := newResultBuilder(mem, fn.Result())
	if err != nil {
		return nil, err
	}
	defer b.release()

	for i := 0; i < values.Len(); i++ {
		if values.IsNull(i) {
			b.appendNull()
			continue
		}

		v, err := fn.Evaluate(values.Value(i), 0)
		if err != nil {
			if !opts.NullOnError {
				return nil, &RowError{Function: fn.Name(), Row: i, Err: err}
			}
			if opts.OnError != nil {
				opts.OnError(i, err)
			}
			b.appendNull()
			continue
		}
		b.append(v)
	}

	return b.newArray(), nil
}

// EvaluateRecord evaluates each of fns over the named geometry column of rec
// and returns a new record with one result column appended per function,
// named after it. The caller must release the returned record.
func EvaluateRecord(mem memory.Allocator, rec arrow.RecordBatch, name string, fns []wkbstat.Function, opts *Options) (arrow.RecordBatch, error) {
	indices := rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("column: no column named %q", name)
	}
	geoms := rec.Column(indices[0])

	fields := append([]arrow.Field(nil), rec.Schema().Fields()...)
	cols := make([]arrow.Array, 0, len(fields)+len(fns))
	cols = append(cols, rec.Columns()...)

	results := make([]arrow.Array, 0, len(fns))
	defer func() {
		for _, arr := range results {
			arr.Release()
		}
	}()

	for _, fn := range fns {
		arr, err := Evaluate(mem, fn, geoms, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, arr)
		fields = append(fields, arrow.Field{Name: fn.Name(), Type: DataType(fn), Nullable: true})
		cols = append(cols, arr)
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecordBatch(schema, cols, rec.NumRows()), nil
}

// FromBytes builds a Binary array from values; nil entries become nulls.
// The caller must release the returned array.
func FromBytes(mem memory.Allocator, values [][]byte) *array.Binary {
	b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer b.Release()

	b.Reserve(len(values))
	for _, v := range values {
		if v == nil {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	return b.NewBinaryArray()
}
