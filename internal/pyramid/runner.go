package pyramid

import (
	"errors"
	"sync"

	"github.com/pspoerri/pyrblend/internal/raster"
)

// Request describes one blend invocation for a Runner.
type Request struct {
	ImageA, ImageB, Mask *raster.Raster
	Levels               int
}

// Runner serializes blend computations against one output target: at most
// one blend is in flight at a time, and a new Submit supersedes a prior
// unfinished one instead of running concurrently with it. A superseded
// computation is abandoned at the next level boundary and its partial
// output discarded; only the result of the latest request is delivered.
//
// This is the scheduling contract an interactive embedder needs; sliders
// fire faster than blends finish, and only the newest parameters matter.
type Runner struct {
	onResult func(*Result, error)

	mu     sync.Mutex
	idle   *sync.Cond
	seq    uint64   // id of the most recent Submit
	latest *Request // pending request, nil once picked up
	busy   bool
}

// NewRunner creates a runner delivering completed results (or precondition
// errors) to onResult. The callback runs on the runner's goroutine and is
// never invoked for superseded computations.
func NewRunner(onResult func(*Result, error)) *Runner {
	r := &Runner{onResult: onResult}
	r.idle = sync.NewCond(&r.mu)
	return r
}

// Submit schedules a blend, replacing any not-yet-started or in-flight
// request. Safe for concurrent use.
func (r *Runner) Submit(req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.latest = &req
	if !r.busy {
		r.busy = true
		go r.run()
	}
}

// Wait blocks until the runner has no pending or in-flight work.
func (r *Runner) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.busy {
		r.idle.Wait()
	}
}

func (r *Runner) run() {
	for {
		r.mu.Lock()
		req := r.latest
		id := r.seq
		r.latest = nil
		if req == nil {
			r.busy = false
			r.idle.Broadcast()
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()

		res, err := blend(req.ImageA, req.ImageB, req.Mask, req.Levels, func() bool {
			return r.currentID() == id
		})
		if errors.Is(err, ErrSuperseded) {
			continue
		}
		if r.currentID() == id {
			r.onResult(res, err)
		}
	}
}

func (r *Runner) currentID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}
