package pyramid

import (
	"errors"
	"sync"
	"testing"

	"github.com/pspoerri/pyrblend/internal/raster"
)

func TestRunner_DeliversResult(t *testing.T) {
	var (
		mu      sync.Mutex
		results []*Result
		errs    []error
	)
	r := NewRunner(func(res *Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, res)
		errs = append(errs, err)
	})

	a := gradientRaster(32, 32)
	b := raster.NewUniform(32, 32, 9, 9, 9)
	white := raster.NewUniform(32, 32, 255, 255, 255)

	r.Submit(Request{ImageA: a, ImageB: b, Mask: white, Levels: 2})
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 {
		t.Fatalf("delivered %d results, want 1", len(results))
	}
	if errs[0] != nil {
		t.Fatalf("unexpected error: %v", errs[0])
	}
	if d := maxAbsDiff(results[0].Result, a); d > 1e-6 {
		t.Errorf("white mask result deviates from A by %g", d)
	}
}

func TestRunner_DeliversPreconditionError(t *testing.T) {
	var (
		mu   sync.Mutex
		errs []error
	)
	r := NewRunner(func(_ *Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	})

	a := gradientRaster(16, 16)
	r.Submit(Request{ImageA: a, ImageB: a, Mask: a, Levels: -3})
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(errs) != 1 {
		t.Fatalf("delivered %d callbacks, want 1", len(errs))
	}
	if !errors.Is(errs[0], ErrInvalidLevels) {
		t.Errorf("err = %v, want ErrInvalidLevels", errs[0])
	}
}

func TestRunner_SupersedeDeliversLatest(t *testing.T) {
	// A burst of submissions against one target: the runner may skip
	// superseded computations entirely, but the final delivered result
	// must correspond to the last request submitted.
	var (
		mu      sync.Mutex
		results []*Result
	)
	r := NewRunner(func(res *Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			results = append(results, res)
		}
	})

	a := gradientRaster(128, 128)
	b := raster.NewUniform(128, 128, 3, 3, 3)
	black := raster.NewUniform(128, 128, 0, 0, 0)
	white := raster.NewUniform(128, 128, 255, 255, 255)

	// Many stale requests selecting B, then a final one selecting A.
	for i := 0; i < 16; i++ {
		r.Submit(Request{ImageA: a, ImageB: b, Mask: black, Levels: 5})
	}
	r.Submit(Request{ImageA: a, ImageB: b, Mask: white, Levels: 5})
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(results) == 0 {
		t.Fatal("no result delivered")
	}
	if len(results) > 17 {
		t.Fatalf("delivered %d results for 17 submissions", len(results))
	}
	last := results[len(results)-1]
	if d := maxAbsDiff(last.Result, a); d > 1e-6 {
		t.Errorf("final result should match the last request (mask=white -> A); deviates by %g", d)
	}
}
