package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docregistry/internal/frontmatter"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

func testRegistry(t *testing.T, title string) *registry.Registry {
	t.Helper()
	reg, err := registry.Load([]registry.RawPage{
		{Path: "/v2.0/", Meta: frontmatter.Meta{Title: title}},
	}, registry.Options{})
	require.NoError(t, err)
	return reg
}

func TestHolder_SwapIsVisibleToReaders(t *testing.T) {
	first := testRegistry(t, "First")
	second := testRegistry(t, "Second")

	h := NewHolder(first, "b1")
	reg, id := h.Get()
	require.Same(t, first, reg)
	require.Equal(t, "b1", id)

	h.Swap(second, "b2")
	reg, id = h.Get()
	require.Same(t, second, reg)
	require.Equal(t, "b2", id)
}

func TestWatcher_TriggersRebuildOnContentChange(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int32
	w, err := NewWatcher([]string{root}, 50*time.Millisecond, func(context.Context) {
		rebuilds.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "page.md"), []byte("---\ntitle: P\n---\n"), 0o644))

	require.Eventually(t, func() bool {
		return rebuilds.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int32
	w, err := NewWatcher([]string{root}, 200*time.Millisecond, func(context.Context) {
		rebuilds.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	for range 5 {
		name := filepath.Join(root, "page.md")
		require.NoError(t, os.WriteFile(name, []byte("---\ntitle: P\n---\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return rebuilds.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	// The burst collapses into far fewer rebuilds than writes.
	require.LessOrEqual(t, rebuilds.Load(), int32(2))
}

func TestWatcher_IgnoresNonMarkdownFiles(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int32
	w, err := NewWatcher([]string{root}, 50*time.Millisecond, func(context.Context) {
		rebuilds.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// A write (not create) to a non-markdown file should not rebuild.
	name := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(name, []byte("first"), 0o644))
	time.Sleep(100 * time.Millisecond)
	rebuilds.Store(0)
	require.NoError(t, os.WriteFile(name, []byte("second"), 0o644))

	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(0), rebuilds.Load())
}

func TestScheduler_RunsScheduledTask(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	var runs atomic.Int32
	_, err = s.ScheduleVerification(50*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 3*time.Second, 20*time.Millisecond)
}
