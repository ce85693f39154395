package testfixtures

import (
	"sync"
	"testing"
)

func TestIDGeneratorSequence(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("meeting")
	for i, want := range []string{"meeting-1", "meeting-2", "meeting-3"} {
		if got := gen.Next(); got != want {
			t.Errorf("call %d: expected %q, got %q", i+1, want, got)
		}
	}
}

func TestIDGeneratorDefaultPrefix(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Errorf("expected id-1, got %q", got)
	}
}

func TestIDGeneratorConcurrentUse(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("req")
	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	seen := make(chan string, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				seen <- gen.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	ids := make(map[string]struct{}, workers*perWorker)
	for id := range seen {
		if _, dup := ids[id]; dup {
			t.Fatalf("duplicate identifier %q", id)
		}
		ids[id] = struct{}{}
	}
	if len(ids) != workers*perWorker {
		t.Errorf("expected %d unique ids, got %d", workers*perWorker, len(ids))
	}
}
