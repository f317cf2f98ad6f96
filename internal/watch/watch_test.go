package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_EmitsInitialResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.swiftinterface")
	if err := os.WriteFile(path, []byte("module A"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(func() (int, []string, error) {
		return 1, []string{path}, nil
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	select {
	case r := <-w.Results():
		if r != 1 {
			t.Fatalf("expected initial result 1, got %d", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for initial result")
	}
}

func TestWatcher_RePlansOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.swiftinterface")
	if err := os.WriteFile(path, []byte("module A"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	count := 0
	w, err := New(func() (int, []string, error) {
		count++
		return count, []string{path}, nil
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	<-w.Results() // drain initial

	if err := os.WriteFile(path, []byte("module A v2"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case r := <-w.Results():
		if r < 2 {
			t.Fatalf("expected a re-plan after write, got %d", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for re-plan after write")
	}
}
