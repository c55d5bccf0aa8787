package util

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	got := SortedStringKeys(m)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedStringKeys = %v, want %v", got, want)
	}
}

func TestWriteStringWithDirs(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "nested", "out", "report.md")

	if err := WriteStringWithDirs(path, "content", 0o644); err != nil {
		t.Fatalf("WriteStringWithDirs failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow(1) || !l.Allow(1) {
		t.Error("expected burst of 2 to be allowed")
	}
	if l.Allow(1) {
		t.Error("expected third immediate request to be denied")
	}

	time.Sleep(1100 * time.Millisecond)
	if !l.Allow(1) {
		t.Error("expected token to refill after a second")
	}
}
