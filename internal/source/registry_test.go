package source

import (
	"context"
	"reflect"
	"testing"

	"github.com/seele/swipefeed/internal/domain"
)

type fakeSource struct {
	name string
}

func (f *fakeSource) Name() string        { return f.name }
func (f *fakeSource) DisplayName() string { return f.name }
func (f *fakeSource) Fetch(ctx context.Context, page, limit int) ([]domain.ImageData, error) {
	return nil, nil
}

func TestRegistryGetFallsBackToDefault(t *testing.T) {
	reg := NewRegistry("alpha")
	alpha := &fakeSource{name: "alpha"}
	beta := &fakeSource{name: "beta"}
	reg.Register(alpha)
	reg.Register(beta)

	if got := reg.Get("beta"); got != Source(beta) {
		t.Errorf("expected beta, got %v", got)
	}
	// Unknown identifiers silently fall back to the default
	if got := reg.Get("no-such-source"); got != Source(alpha) {
		t.Errorf("expected fallback to alpha, got %v", got)
	}
	if got := reg.Get(""); got != Source(alpha) {
		t.Errorf("expected fallback to alpha for empty name, got %v", got)
	}
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry("b")
	reg.Register(&fakeSource{name: "b"})
	reg.Register(&fakeSource{name: "a"})

	if got := reg.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected sorted names, got %v", got)
	}
	if reg.DefaultName() != "b" {
		t.Errorf("expected default b, got %q", reg.DefaultName())
	}
}
