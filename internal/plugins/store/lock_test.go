package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

func TestFileLock_MutualExclusion(t *testing.T) {
	lock := newFileLock(filepath.Join(t.TempDir(), "prefs.json"))

	first, err := lock.Lock()
	if err != nil {
		t.Fatalf("first Lock() failed: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		second, err := lock.Lock()
		if err != nil {
			t.Errorf("second Lock() failed: %v", err)
			return
		}
		defer func() { _ = second.Unlock() }()
		close(acquired)
	}()

	time.Sleep(50 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	default:
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock not acquired after the first was released")
	}
}

func TestFileLock_DoubleUnlock(t *testing.T) {
	h, err := newFileLock(filepath.Join(t.TempDir(), "prefs.json")).Lock()
	if err != nil {
		t.Fatalf("Lock() failed: %v", err)
	}
	if err := h.Unlock(); err != nil {
		t.Fatalf("first Unlock() failed: %v", err)
	}
	if err := h.Unlock(); err != nil {
		t.Fatalf("second Unlock() should be a no-op, got: %v", err)
	}
}

// Two processes sharing a store directory must not interleave writes.
func TestSave_ConcurrentWritersLeaveValidFile(t *testing.T) {
	dir := t.TempDir()
	a := newStores(dir, true, logging.NewNop())
	b := newStores(dir, true, logging.NewNop())

	done := make(chan struct{})
	for _, s := range []*Stores{a, b} {
		go func(s *Stores) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 25; i++ {
				if err := s.Set("shared", "counter", float64(i)); err != nil {
					t.Errorf("Set() failed: %v", err)
					return
				}
			}
		}(s)
	}
	<-done
	<-done

	if _, err := os.Stat(filepath.Join(dir, "shared.json.lock")); err != nil {
		t.Errorf("lock file missing: %v", err)
	}

	fresh := newStores(dir, false, logging.NewNop())
	v, err := fresh.Get("shared", "counter")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if v != float64(24) {
		t.Errorf("counter = %v, want 24", v)
	}
}
