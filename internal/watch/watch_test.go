package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevantEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write json", fsnotify.Event{Name: "/data/current.json", Op: fsnotify.Write}, true},
		{"create json", fsnotify.Event{Name: "/data/history.JSON", Op: fsnotify.Create}, true},
		{"rename json", fsnotify.Event{Name: "/data/w1.json", Op: fsnotify.Rename}, true},
		{"remove json", fsnotify.Event{Name: "/data/w1.json", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/data/current.json", Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}, false},
		{"hidden temp file", fsnotify.Event{Name: "/data/.current.json", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, relevantEvent(tt.event))
		})
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 100*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) { calls <- struct{}{} })
	}()

	for i := range 3 {
		content := []byte(`{"students": []}` + string(rune('0'+i)))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "current.json"), content, 0o644))
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no change callback after writing current.json")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), time.Second)
	assert.Error(t, err)
}
