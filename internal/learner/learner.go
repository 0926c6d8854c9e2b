package learner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/banshee-data/spellbook/internal/contract"
	"github.com/banshee-data/spellbook/internal/gesture"
	"github.com/banshee-data/spellbook/internal/monitoring"
	"github.com/banshee-data/spellbook/internal/neural"
	"github.com/banshee-data/spellbook/internal/preprocess"
	"github.com/banshee-data/spellbook/internal/timeutil"
)

// ErrNoTrainingData is returned by StartTraining when no hand count has a
// usable training set.
var ErrNoTrainingData = errors.New("no gestures to train on")

// Observer receives the status of every training epoch, on the trainer's
// goroutine.
type Observer interface {
	ObserveEpoch(hand int, status neural.Status)
}

// Option configures a Learner.
type Option func(*Learner)

// WithObserver reports training progress to o.
func WithObserver(o Observer) Option {
	return func(l *Learner) { l.observer = o }
}

// WithClock sets the clock used to stamp training runs.
func WithClock(c timeutil.Clock) Option {
	return func(l *Learner) { l.clock = c }
}

// slot holds the networks for one hand count. pending is the network
// being trained; live is the one Recognize reads.
type slot struct {
	hand    int
	pre     *preprocess.Preprocessor
	trainer *neural.Trainer
	live    atomic.Pointer[neural.Network]
	pending atomic.Pointer[neural.Network]
}

// Learner owns one preprocessor, trainer and network per hand count.
type Learner struct {
	settings Settings
	slots    []*slot
	observer Observer
	clock    timeutil.Clock
}

// New builds an untrained learner.
func New(settings Settings, opts ...Option) (*Learner, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	l := &Learner{settings: settings, clock: timeutil.RealClock{}}
	for _, o := range opts {
		o(l)
	}

	l.slots = make([]*slot, settings.MaxHands)
	for i := range l.slots {
		hand := i + 1
		pre, err := preprocess.New(settings.Grid, hand)
		if err != nil {
			return nil, err
		}
		s := &slot{hand: hand, pre: pre}
		trainerOpts := []neural.TrainerOption{
			neural.WithClock(l.clock),
			neural.WithCompletionHook(s.publish),
		}
		if l.observer != nil {
			obs := l.observer
			trainerOpts = append(trainerOpts, neural.WithEpochHook(func(st neural.Status) {
				obs.ObserveEpoch(hand, st)
			}))
		}
		s.trainer = neural.NewTrainer(settings.Seed+uint64(hand), trainerOpts...)
		l.slots[i] = s
	}
	return l, nil
}

// publish makes net live if it is still the network this slot is waiting
// for. Runs that were superseded by a newer StartTraining are dropped.
func (s *slot) publish(net *neural.Network, st neural.Status) {
	if !s.pending.CompareAndSwap(net, nil) {
		return
	}
	s.live.Store(net)
	monitoring.Logf("[Learner] %d-hand network live after %d iterations (error %.4f, successful %t, stopped %t)",
		s.hand, st.Iteration, st.Error, st.Successful, st.Stopped)
}

// Settings returns the learner's configuration.
func (l *Learner) Settings() Settings { return l.settings }

func (l *Learner) slotFor(hand int) (*slot, error) {
	if hand < 1 || hand > len(l.slots) {
		return nil, contract.Invalidf("hand count %d outside 1..%d", hand, len(l.slots))
	}
	return l.slots[hand-1], nil
}

// StartTraining builds a fresh network for every hand count that has
// gestures in spells and starts training it in the background. The output
// index of each spell is its position in spells. A hand count with no
// gestures in spells has its in-flight run cancelled and never published.
// It returns the number of hand counts whose training started.
func (l *Learner) StartTraining(ctx context.Context, spells []*gesture.Spell) (int, error) {
	started := 0
	for _, s := range l.slots {
		samples, err := CreateSamples(spells, s.pre)
		if err != nil {
			return started, fmt.Errorf("%d-hand samples: %w", s.hand, err)
		}
		if !neural.ValidTrainingSet(samples) {
			// A run from an earlier call is labelled against the old spell
			// list and must not go live.
			s.pending.Store(nil)
			s.trainer.Stop(true)
			monitoring.Logf("[Learner] no usable %d-hand gestures, skipping", s.hand)
			continue
		}

		net, err := neural.New(neural.DefaultSettings(samples[0], l.settings.HiddenLayers))
		if err != nil {
			return started, fmt.Errorf("%d-hand network: %w", s.hand, err)
		}
		monitoring.Logf("[Learner] training %v on %d %d-hand samples", net, len(samples), s.hand)

		s.pending.Store(net)
		if err := s.trainer.RunAsync(ctx, net, samples, l.settings.Train); err != nil {
			s.pending.CompareAndSwap(net, nil)
			return started, fmt.Errorf("%d-hand training: %w", s.hand, err)
		}
		started++
	}
	if started == 0 {
		return 0, ErrNoTrainingData
	}
	return started, nil
}

// StopTraining cancels every run and waits for the workers to exit. A
// stopped run still publishes the weights of its last completed epoch.
func (l *Learner) StopTraining() {
	for _, s := range l.slots {
		s.trainer.Stop(true)
	}
}

// Wait blocks until every training run has ended.
func (l *Learner) Wait(ctx context.Context) error {
	for _, s := range l.slots {
		if err := s.trainer.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Status returns the training status for hand count hand.
func (l *Learner) Status(hand int) (neural.Status, error) {
	s, err := l.slotFor(hand)
	if err != nil {
		return neural.Status{}, err
	}
	return s.trainer.Status(), nil
}

// Network returns the live network for hand count hand, or nil.
func (l *Learner) Network(hand int) *neural.Network {
	s, err := l.slotFor(hand)
	if err != nil {
		return nil
	}
	return s.live.Load()
}

// SetNetwork installs a previously trained network as live. Its input
// size must match the preprocessor for hand. A run already in flight for
// the same hand count will still replace it when it finishes.
func (l *Learner) SetNetwork(hand int, net *neural.Network) error {
	s, err := l.slotFor(hand)
	if err != nil {
		return err
	}
	if net == nil {
		return contract.Invalidf("nil network")
	}
	if net.InputCount() != s.pre.InputSize() {
		return contract.Invalidf("network takes %d inputs, %d-hand grid produces %d",
			net.InputCount(), hand, s.pre.InputSize())
	}
	s.live.Store(net)
	return nil
}

// Recognize classifies g. Invalid gestures, unsupported hand counts and
// hand counts without a live network all yield NotRecognized.
func (l *Learner) Recognize(g *gesture.Gesture) Recognition {
	miss := Recognition{Spell: NotRecognized}
	if !g.Valid() {
		return miss
	}
	s, err := l.slotFor(g.HandCount())
	if err != nil {
		return miss
	}
	net := s.live.Load()
	if net == nil || net.InputCount() != s.pre.InputSize() {
		monitoring.Logf("[Learner] %d-hand network not ready", s.hand)
		return miss
	}

	in, err := s.pre.Input(g)
	if err != nil {
		return miss
	}
	out, err := net.Evaluate(in)
	if err != nil {
		return miss
	}
	return PickBest(out, l.settings.RecognitionThreshold)
}
