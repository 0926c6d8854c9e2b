package monitoring

import (
	"fmt"
	"log"
	"sync"
	"testing"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(log.Printf)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("[Trainer] epoch %d", 3)
	if got != "[Trainer] epoch 3" {
		t.Errorf("custom logger received %q", got)
	}

	// nil installs a no-op; this must not panic.
	SetLogger(nil)
	Logf("dropped %s", "message")
}

func TestLogf_ConcurrentSwap(t *testing.T) {
	defer SetLogger(log.Printf)

	var mu sync.Mutex
	count := 0
	counting := func(string, ...interface{}) {
		mu.Lock()
		count++
		mu.Unlock()
	}
	SetLogger(counting)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Logf("tick")
			}
		}()
	}
	SetLogger(counting)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 800 {
		t.Errorf("count = %d, want 800", count)
	}
}
