package shortcode

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/donan22/shortlink-service/internal/domain"
)

type fakeChecker struct {
	taken map[string]bool
	calls int
}

func (f *fakeChecker) CodeExists(_ context.Context, code string) (bool, error) {
	f.calls++
	return f.taken[code], nil
}

// collideFirst reports the first N draws as taken.
type collideFirst struct {
	remaining int
	calls     int
}

func (c *collideFirst) CodeExists(context.Context, string) (bool, error) {
	c.calls++
	if c.remaining > 0 {
		c.remaining--
		return true, nil
	}
	return false, nil
}

type alwaysTaken struct{}

func (alwaysTaken) CodeExists(context.Context, string) (bool, error) {
	return true, nil
}

func TestGenerateLengthAndAlphabet(t *testing.T) {
	gen, err := NewGenerator(8, &fakeChecker{})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	for i := 0; i < 100; i++ {
		code, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(code) != 8 {
			t.Fatalf("code %q has length %d, want 8", code, len(code))
		}
		for _, c := range code {
			if !strings.ContainsRune(Alphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestGenerateDistinct(t *testing.T) {
	gen, err := NewGenerator(8, &fakeChecker{})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q after %d generations", code, i)
		}
		seen[code] = true
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	checker := &collideFirst{remaining: 3}
	gen, err := NewGenerator(8, checker)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	code, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code == "" {
		t.Fatal("expected a code after collisions resolved")
	}
	if checker.calls != 4 {
		t.Fatalf("got %d registry checks, want 4 (3 collisions + 1 success)", checker.calls)
	}
}

func TestGenerateExhaustion(t *testing.T) {
	gen, err := NewGenerator(8, alwaysTaken{})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	_, err = gen.Generate(context.Background())
	if !errors.Is(err, domain.ErrCodeSpaceExhausted) {
		t.Fatalf("got %v, want ErrCodeSpaceExhausted", err)
	}
}

func TestDefaultLength(t *testing.T) {
	gen, err := NewGenerator(0, &fakeChecker{})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if gen.Length() != DefaultLength {
		t.Fatalf("got length %d, want %d", gen.Length(), DefaultLength)
	}
}
