package neural

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/panics"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/spellbook/internal/monitoring"
	"github.com/banshee-data/spellbook/internal/timeutil"
)

// Status is an immutable snapshot of a training run.
type Status struct {
	Running  bool
	Stopping bool
	// Iteration counts completed epochs.
	Iteration int
	// Error is the mean error of the last completed epoch, or -1 before
	// the first one.
	Error      float64
	Successful bool
	// Stopped is set when the run was cancelled before it finished.
	Stopped    bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithClock sets the clock used to stamp runs.
func WithClock(c timeutil.Clock) TrainerOption {
	return func(t *Trainer) { t.clock = c }
}

// WithEpochHook registers f to be called on the worker goroutine after
// every epoch. f must not call Stop with sync set.
func WithEpochHook(f func(Status)) TrainerOption {
	return func(t *Trainer) { t.onEpoch = f }
}

// WithCompletionHook registers f to be called on the worker goroutine
// once a run has ended, before Wait returns.
func WithCompletionHook(f func(*Network, Status)) TrainerOption {
	return func(t *Trainer) { t.onDone = f }
}

// Trainer runs backpropagation on a background goroutine. At most one run
// is active per Trainer; starting a new run stops the previous one first.
type Trainer struct {
	mu     sync.Mutex // guards cancel and done
	cancel context.CancelFunc
	done   chan struct{}

	status   atomic.Pointer[Status]
	stopping atomic.Bool

	src     *rand.PCG
	rng     *rand.Rand
	clock   timeutil.Clock
	onEpoch func(Status)
	onDone  func(*Network, Status)
}

// NewTrainer returns an idle trainer whose random stream is fixed by seed.
func NewTrainer(seed uint64, opts ...TrainerOption) *Trainer {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	t := &Trainer{
		src:   src,
		rng:   rand.New(src),
		clock: timeutil.RealClock{},
	}
	for _, o := range opts {
		o(t)
	}
	t.status.Store(&Status{Error: -1})
	return t
}

// Status returns the latest snapshot.
func (t *Trainer) Status() Status {
	s := *t.status.Load()
	s.Stopping = s.Running && t.stopping.Load()
	return s
}

// RunAsync resets net's weights and starts training it on samples. It
// returns once the worker has started. Invalid input is reported as
// contract.ErrInvalidInput and leaves any current run untouched.
func (t *Trainer) RunAsync(ctx context.Context, net *Network, samples []Sample, settings TrainSettings) error {
	if err := validateRun(net, samples, settings); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked(true)

	u := distuv.Uniform{Min: settings.WeightMin, Max: settings.WeightMax, Src: t.src}
	for _, l := range net.layers {
		for _, p := range l.Neurons {
			p.Reset(u)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	t.stopping.Store(false)
	t.status.Store(&Status{Running: true, Error: -1, StartedAt: t.clock.Now()})

	go t.work(runCtx, cancel, done, net, slices.Clone(samples), settings)
	return nil
}

// Stop requests cancellation of the current run. It is a no-op when no
// run is active. With sync set it blocks until the worker has exited.
func (t *Trainer) Stop(sync bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked(sync)
}

func (t *Trainer) stopLocked(sync bool) {
	if t.done == nil {
		return
	}
	select {
	case <-t.done:
		return
	default:
	}
	t.stopping.Store(true)
	t.cancel()
	if sync {
		<-t.done
	}
}

// Wait blocks until the current run, if any, has ended.
func (t *Trainer) Wait(ctx context.Context) error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Trainer) work(ctx context.Context, cancel context.CancelFunc, done chan struct{}, net *Network, samples []Sample, settings TrainSettings) {
	defer close(done)
	defer cancel()

	var pc panics.Catcher
	pc.Try(func() { t.run(ctx, net, samples, settings) })

	final := *t.status.Load()
	if r := pc.Recovered(); r != nil {
		monitoring.Logf("[Trainer] training run panicked: %v", r.Value)
		final.Successful = false
	}
	final.Running = false
	final.FinishedAt = t.clock.Now()
	t.status.Store(&final)
	t.stopping.Store(false)

	if t.onDone != nil {
		t.onDone(net, final)
	}
}

func (t *Trainer) run(ctx context.Context, net *Network, samples []Sample, settings TrainSettings) {
	st := *t.status.Load()
	for st.Iteration < settings.MaxIterations {
		if ctx.Err() != nil {
			st.Stopped = true
			break
		}

		t.rng.Shuffle(len(samples), func(i, j int) {
			samples[i], samples[j] = samples[j], samples[i]
		})
		st.Error = Epoch(net, samples, settings.LearningRate, settings.Momentum)
		st.Iteration++
		st.Successful = st.Error <= settings.TargetError
		t.publish(st)

		if t.onEpoch != nil {
			t.onEpoch(st)
		}
		if st.Successful {
			break
		}
	}
	t.publish(st)
}

func (t *Trainer) publish(st Status) {
	t.status.Store(&st)
}
