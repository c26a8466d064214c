package backend

import (
	"errors"
	"testing"

	"github.com/vovakirdan/megatiny/internal/engine"
)

func TestRegisterAndCreate(t *testing.T) {
	var got Options
	Register("test-ok", "test backend", func(opts Options) (engine.Backend, error) {
		got = opts
		return nil, nil
	})

	if !Exists("test-ok") {
		t.Fatal("Exists(\"test-ok\") = false after Register")
	}

	if _, err := Create("test-ok", Options{FPS: 30}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if got.FPS != 30 {
		t.Errorf("factory got FPS %d, expected 30", got.FPS)
	}
	if got.Logger == nil {
		t.Error("Create should fill in a logger")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("does-not-exist", Options{}); err == nil {
		t.Error("Create() of an unknown backend should fail")
	}
}

func TestCreatePropagatesFactoryError(t *testing.T) {
	boom := errors.New("boom")
	Register("test-fail", "failing backend", func(Options) (engine.Backend, error) {
		return nil, boom
	})

	if _, err := Create("test-fail", Options{}); !errors.Is(err, boom) {
		t.Errorf("Create() error = %v, expected %v", err, boom)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "", func(Options) (engine.Backend, error) { return nil, nil })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("test-dup", "", func(Options) (engine.Backend, error) { return nil, nil })
}

func TestListSorted(t *testing.T) {
	Register("test-b", "", func(Options) (engine.Backend, error) { return nil, nil })
	Register("test-a", "", func(Options) (engine.Backend, error) { return nil, nil })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("List() not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}
