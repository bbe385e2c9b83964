package core

import (
	"context"
	"errors"
	"testing"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

type fakeFilter struct {
	seen []string
	keep func(path *walk.Key) bool
	err  error
}

func (f *fakeFilter) Match(path *walk.Key, _ tree.Scalar) (bool, error) {
	f.seen = append(f.seen, path.String())
	if f.err != nil {
		return false, f.err
	}
	return f.keep(path), nil
}

func TestEngineUsesInjectedFilter(t *testing.T) {
	filter := &fakeFilter{keep: func(path *walk.Key) bool { return path.Depth() == 1 }}
	engine, err := New(WithFilterFunc(filter))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	pairs, err := engine.Collect(context.Background(), mustRoot(t))
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(filter.seen) != 5 {
		t.Fatalf("filter saw %d values, want 5", len(filter.seen))
	}
	if got := paths(pairs); !equalStrings(got, []string{"c"}) {
		t.Fatalf("paths = %v, want [c]", got)
	}
}

func TestEngineReturnsInjectedFilterError(t *testing.T) {
	boom := errors.New("boom")
	filter := &fakeFilter{err: boom}
	engine, err := New(WithFilterFunc(filter))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	_, err = engine.Collect(context.Background(), mustRoot(t))
	if !errors.Is(err, boom) {
		t.Fatalf("Collect error = %v, want %v", err, boom)
	}
	if len(filter.seen) != 1 {
		t.Fatalf("filter saw %d values after the error, want 1", len(filter.seen))
	}
}

func TestWithFilterOverridesInjectedFilter(t *testing.T) {
	filter := &fakeFilter{keep: func(*walk.Key) bool { return false }}
	engine, err := New(WithFilterFunc(filter), WithFilter("depth == 2"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	pairs, err := engine.Collect(context.Background(), mustRoot(t))
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if got := paths(pairs); !equalStrings(got, []string{"a.0", "d.e"}) {
		t.Fatalf("paths = %v", got)
	}
	if len(filter.seen) != 0 {
		t.Fatalf("injected filter should not run, saw %v", filter.seen)
	}
}
