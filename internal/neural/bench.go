package neural

import (
	"context"

	"github.com/banshee-data/spellbook/internal/contract"
)

// XORTrainingSet returns the four rows of the XOR truth table.
func XORTrainingSet() []Sample {
	return []Sample{
		{Input: []float64{0, 0}, Output: []float64{0}},
		{Input: []float64{0, 1}, Output: []float64{1}},
		{Input: []float64{1, 0}, Output: []float64{1}},
		{Input: []float64{1, 1}, Output: []float64{0}},
	}
}

// Benchmark trains a default-sized network on samples repeats times in a
// row, using a single trainer seeded with seed, and returns the final
// status of each run.
func Benchmark(ctx context.Context, samples []Sample, settings TrainSettings, repeats int, seed uint64) ([]Status, error) {
	if repeats < 1 {
		return nil, contract.Invalidf("repeats %d", repeats)
	}
	if !ValidTrainingSet(samples) {
		return nil, contract.Invalidf("training set of %d samples is not valid", len(samples))
	}
	net, err := New(DefaultSettings(samples[0], 1))
	if err != nil {
		return nil, err
	}

	tr := NewTrainer(seed)
	out := make([]Status, 0, repeats)
	for i := 0; i < repeats; i++ {
		if err := tr.RunAsync(ctx, net, samples, settings); err != nil {
			return nil, err
		}
		if err := tr.Wait(ctx); err != nil {
			tr.Stop(true)
			return out, err
		}
		out = append(out, tr.Status())
	}
	return out, nil
}

// Summary aggregates benchmark results.
type Summary struct {
	Runs          int
	Successful    int
	MeanError     float64
	MeanIteration float64
}

// Summarize averages the error and iteration count over results.
func Summarize(results []Status) Summary {
	s := Summary{Runs: len(results)}
	if len(results) == 0 {
		return s
	}
	for _, r := range results {
		if r.Successful {
			s.Successful++
		}
		s.MeanError += r.Error
		s.MeanIteration += float64(r.Iteration)
	}
	s.MeanError /= float64(len(results))
	s.MeanIteration /= float64(len(results))
	return s
}
