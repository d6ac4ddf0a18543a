package wkbstat

import (
	"errors"
	"sync"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	names := r.Names()
	expected := []string{FuncGeometryType, FuncNPoints, FuncNRings}
	if len(names) != len(expected) {
		t.Fatalf("expected %d functions, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("at index %d: expected %q, got %q", i, name, names[i])
		}
	}
}

func TestDefaultRegistry_Independent(t *testing.T) {
	a := DefaultRegistry()
	b := DefaultRegistry()

	if err := a.Register(countFunc{name: "custom", eval: NumPoints}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := b.Lookup("custom"); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("expected registries to be independent, got %v", err)
	}
}

func TestRegistry_Evaluate(t *testing.T) {
	r := DefaultRegistry()
	buf := polygonBuf(5, 4)

	tests := []struct {
		name     string
		expected Value
	}{
		{FuncGeometryType, Value{Type: ResultString, Str: "Polygon"}},
		{FuncNPoints, Value{Type: ResultInt64, Int: 7}},
		{FuncNRings, Value{Type: ResultInt64, Int: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := r.Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if fn.Result() != tt.expected.Type {
				t.Errorf("expected result type %v, got %v", tt.expected.Type, fn.Result())
			}

			v, err := fn.Evaluate(buf, 0)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if v != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, v)
			}
		})
	}
}

func TestRegistry_EvaluateError(t *testing.T) {
	fn := NRingsFunc()

	v, err := fn.Evaluate(lineBuf(LineString, 2), 0)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
	if v != (Value{}) {
		t.Errorf("expected zero value on error, got %+v", v)
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	_, err := NewRegistry(NPointsFunc(), NPointsFunc())
	if !errors.Is(err, ErrDuplicateFunction) {
		t.Errorf("expected ErrDuplicateFunction, got %v", err)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := DefaultRegistry()

	if _, err := r.Lookup("st-area"); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestRegistry_ConcurrentEvaluate(t *testing.T) {
	r := DefaultRegistry()
	buf := multiPolygonBuf([]uint32{5, 4}, []uint32{6})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn, err := r.Lookup(FuncNPoints)
			if err != nil {
				t.Error(err)
				return
			}
			for j := 0; j < 100; j++ {
				v, err := fn.Evaluate(buf, 0)
				if err != nil || v.Int != 12 {
					t.Errorf("expected 12, got %v (%v)", v.Int, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestValue_String(t *testing.T) {
	if s := (Value{Type: ResultInt64, Int: 42}).String(); s != "42" {
		t.Errorf("expected 42, got %s", s)
	}
	if s := (Value{Type: ResultString, Str: "Point"}).String(); s != "Point" {
		t.Errorf("expected Point, got %s", s)
	}
}
