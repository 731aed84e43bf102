package host

import (
	"context"
	"sync"

	"github.com/hostcall/hostcall/domain/entities"
)

// Recorder collects import calls. It is safe for concurrent use.
type Recorder struct {
	parent *Recorder
	calls  []entities.ImportCall
	mu     sync.Mutex
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a call and forwards it to the enclosing recorder, if any.
func (r *Recorder) Record(call entities.ImportCall) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	if r.parent != nil {
		r.parent.Record(call)
	}
}

// Calls returns a copy of the recorded calls in invocation order.
func (r *Recorder) Calls() []entities.ImportCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.ImportCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

type recorderKey struct{}

// WithCallRecorder attaches a Recorder to ctx. Import calls made while a
// guest export runs under ctx are recorded there and in every recorder
// attached further up the context chain. Concurrent invocations with
// separate contexts never see each other's calls.
func WithCallRecorder(ctx context.Context) (context.Context, *Recorder) {
	r := &Recorder{parent: callRecorderFrom(ctx)}
	return context.WithValue(ctx, recorderKey{}, r), r
}

// callRecorderFrom returns the Recorder attached to ctx, if any.
func callRecorderFrom(ctx context.Context) *Recorder {
	r, _ := ctx.Value(recorderKey{}).(*Recorder)
	return r
}
