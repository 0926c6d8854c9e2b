package monitor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/banshee-data/spellbook/internal/neural"
)

// Sample is one point of a training curve.
type Sample struct {
	Iteration int
	Error     float64
}

// TrainingRecorder collects per-hand training curves. It is safe for
// concurrent use; each hand count's trainer reports on its own goroutine.
type TrainingRecorder struct {
	mu     sync.Mutex
	series map[int][]Sample
}

// NewTrainingRecorder creates an empty recorder.
func NewTrainingRecorder() *TrainingRecorder {
	return &TrainingRecorder{series: make(map[int][]Sample)}
}

// ObserveEpoch appends st to the curve for hand. An iteration that does
// not follow the previous one marks a new run and restarts the curve.
func (r *TrainingRecorder) ObserveEpoch(hand int, st neural.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.series[hand]
	if n := len(s); n > 0 && st.Iteration <= s[n-1].Iteration {
		s = s[:0]
	}
	r.series[hand] = append(s, Sample{Iteration: st.Iteration, Error: st.Error})
}

// Hands returns the hand counts with recorded data, ascending.
func (r *TrainingRecorder) Hands() []int {
	hands, _ := r.snapshot()
	return hands
}

// snapshot copies every non-empty curve under one lock, so the hands and
// curves it returns always agree.
func (r *TrainingRecorder) snapshot() ([]int, map[int][]Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hands := make([]int, 0, len(r.series))
	curves := make(map[int][]Sample, len(r.series))
	for h, s := range r.series {
		if len(s) > 0 {
			hands = append(hands, h)
			curves[h] = append([]Sample(nil), s...)
		}
	}
	sort.Ints(hands)
	return hands, curves
}

// Series returns a copy of the curve for hand.
func (r *TrainingRecorder) Series(hand int) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.series[hand]...)
}

// Reset drops every recorded curve.
func (r *TrainingRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series = make(map[int][]Sample)
}

func handLabel(hand int) string {
	if hand == 1 {
		return "1 hand"
	}
	return fmt.Sprintf("%d hands", hand)
}
