package wkbstat

import (
	"fmt"
	"sort"
	"sync"
)

// Function identifiers of the built-in functions.
const (
	FuncGeometryType = "geometry-type"
	FuncNPoints      = "st-n-points"
	FuncNRings       = "st-n-rings"
)

// ResultType is the scalar type a Function produces.
type ResultType int

const (
	ResultString ResultType = iota
	ResultInt64
)

func (r ResultType) String() string {
	switch r {
	case ResultString:
		return "string"
	case ResultInt64:
		return "int64"
	default:
		return "unknown"
	}
}

// Value is the scalar result of a Function. Only the field matching Type is
// set.
type Value struct {
	Type ResultType
	Str  string
	Int  int64
}

func (v Value) String() string {
	if v.Type == ResultInt64 {
		return fmt.Sprint(v.Int)
	}
	return v.Str
}

// Function evaluates a scalar over a geometry buffer.
type Function interface {
	Name() string
	Result() ResultType
	Evaluate(buf []byte, offset int) (Value, error)
}

type stringFunc struct {
	name string
	eval func([]byte, int) (string, error)
}

func (f stringFunc) Name() string       { return f.name }
func (f stringFunc) Result() ResultType { return ResultString }

func (f stringFunc) Evaluate(buf []byte, offset int) (Value, error) {
	s, err := f.eval(buf, offset)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ResultString, Str: s}, nil
}

type countFunc struct {
	name string
	eval func([]byte, int) (int, error)
}

func (f countFunc) Name() string       { return f.name }
func (f countFunc) Result() ResultType { return ResultInt64 }

func (f countFunc) Evaluate(buf []byte, offset int) (Value, error) {
	n, err := f.eval(buf, offset)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ResultInt64, Int: int64(n)}, nil
}

// GeometryTypeFunc returns the geometry-type function backed by GeometryTypeName.
func GeometryTypeFunc() Function {
	return stringFunc{name: FuncGeometryType, eval: GeometryTypeName}
}

// NPointsFunc returns the st-n-points function backed by NumPoints.
func NPointsFunc() Function {
	return countFunc{name: FuncNPoints, eval: NumPoints}
}

// NRingsFunc returns the st-n-rings function backed by NumRings.
func NRingsFunc() Function {
	return countFunc{name: FuncNRings, eval: NumRings}
}

// Registry maps function identifiers to Functions. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

// NewRegistry creates a registry holding fns.
func NewRegistry(fns ...Function) (*Registry, error) {
	r := &Registry{funcs: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		if err := r.Register(fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry creates a registry holding the built-in functions.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(GeometryTypeFunc(), NPointsFunc(), NRingsFunc())
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds fn under its name.
func (r *Registry) Register(fn Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := fn.Name()
	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, name)
	}
	r.funcs[name] = fn
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return fn, nil
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
