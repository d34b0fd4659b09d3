package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/objview/pkg/view"
)

// EvalTimeout bounds a single script run.
const EvalTimeout = 5 * time.Second

// errSuperseded replaces the result of a run that finished after a newer
// Evaluate call started.
var errSuperseded = errors.New("engine: evaluation superseded by a newer script")

// evalResult is what a script run sends back to Evaluate.
type evalResult struct {
	scene  *view.Scene
	errors []EvalError
	err    error
}

func (r evalResult) unpack() (*view.Scene, []EvalError, error) {
	return r.scene, r.errors, r.err
}

// begin starts a new run and returns its generation.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// latest reports whether gen is still the newest run.
func (e *Engine) latest(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// await collects the result of run gen from ch, giving up after limit. A run
// left behind by a timeout keeps going; it owns ch, which is buffered, so it
// never blocks on the send.
func (e *Engine) await(ch <-chan evalResult, gen uint64, limit time.Duration) evalResult {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.latest(gen) {
			return evalResult{err: errSuperseded}
		}
		return res
	case <-timer.C:
		return evalResult{err: fmt.Errorf("engine: evaluation timed out after %s", limit)}
	}
}
