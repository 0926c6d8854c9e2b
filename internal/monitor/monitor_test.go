package monitor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/spellbook/internal/neural"
)

func record(r *TrainingRecorder, hand int, errs ...float64) {
	for i, e := range errs {
		r.ObserveEpoch(hand, neural.Status{Running: true, Iteration: i + 1, Error: e})
	}
}

func TestTrainingRecorder_Series(t *testing.T) {
	r := NewTrainingRecorder()
	assert.Empty(t, r.Hands())

	record(r, 2, 0.5, 0.4)
	record(r, 1, 0.9, 0.6, 0.3)

	assert.Equal(t, []int{1, 2}, r.Hands())
	want := []Sample{{1, 0.9}, {2, 0.6}, {3, 0.3}}
	if diff := cmp.Diff(want, r.Series(1)); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}

	// The returned slice is a copy.
	s := r.Series(1)
	s[0].Error = 42
	assert.Equal(t, 0.9, r.Series(1)[0].Error)
}

func TestTrainingRecorder_NewRunRestartsCurve(t *testing.T) {
	r := NewTrainingRecorder()
	record(r, 1, 0.9, 0.6, 0.3)
	record(r, 1, 0.8)

	assert.Equal(t, []Sample{{1, 0.8}}, r.Series(1))

	r.Reset()
	assert.Empty(t, r.Hands())
	assert.Empty(t, r.Series(1))
}

func TestTrainingRecorder_Concurrent(t *testing.T) {
	r := NewTrainingRecorder()
	var wg sync.WaitGroup
	for hand := 1; hand <= 4; hand++ {
		wg.Add(1)
		go func(hand int) {
			defer wg.Done()
			for i := 1; i <= 100; i++ {
				r.ObserveEpoch(hand, neural.Status{Iteration: i, Error: 1 / float64(i)})
			}
		}(hand)
	}
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3, 4}, r.Hands())
	for hand := 1; hand <= 4; hand++ {
		assert.Len(t, r.Series(hand), 100)
	}
}

func TestRender_ConcurrentReset(t *testing.T) {
	r := NewTrainingRecorder()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			record(r, 1, 0.9, 0.5)
			record(r, 2, 0.8)
			r.Reset()
		}
	}()

	dir := t.TempDir()
	for i := 0; i < 200; i++ {
		hands, curves := r.snapshot()
		require.Len(t, curves, len(hands))
		for _, h := range hands {
			require.NotEmpty(t, curves[h])
		}

		var buf bytes.Buffer
		if err := r.RenderHTML(&buf); err != nil {
			require.ErrorIs(t, err, ErrNoData)
		}
		if i%20 == 0 {
			if err := r.SavePlot(filepath.Join(dir, "training.svg")); err != nil {
				require.ErrorIs(t, err, ErrNoData)
			}
		}
	}
	close(stop)
	wg.Wait()
}

func TestSavePlot(t *testing.T) {
	r := NewTrainingRecorder()
	path := filepath.Join(t.TempDir(), "plots", "training.png")
	assert.ErrorIs(t, r.SavePlot(path), ErrNoData)

	record(r, 1, 0.9, 0.6, 0.3, 0.1)
	record(r, 2, 0.7, 0.2)
	require.NoError(t, r.SavePlot(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestRenderHTML(t *testing.T) {
	r := NewTrainingRecorder()
	var buf bytes.Buffer
	assert.ErrorIs(t, r.RenderHTML(&buf), ErrNoData)

	record(r, 1, 0.9, 0.6, 0.3)
	record(r, 2, 0.5)
	require.NoError(t, r.RenderHTML(&buf))

	html := buf.String()
	assert.True(t, strings.Contains(html, "Training error"), "missing title")
	assert.Contains(t, html, "1 hand")
	assert.Contains(t, html, "2 hands")
	assert.Contains(t, html, "networks=2 iterations=3")
}
