package buffer

import (
	"sync"
	"testing"

	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_Empty(t *testing.T) {
	_, ok := NewSlot().Current()
	assert.False(t, ok)
}

func TestSlot_NewerLoadWins(t *testing.T) {
	s := NewSlot()
	first := s.Begin()
	second := s.Begin()
	assert.False(t, s.Latest(first))
	assert.True(t, s.Latest(second))

	require.True(t, s.Commit(second, &monitor.Report{Source: "second"}))
	assert.False(t, s.Commit(first, &monitor.Report{Source: "first"}), "late commit of an older load")

	r, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "second", r.Source)
	assert.Equal(t, second, r.Generation)
}

func TestSlot_OlderCommitBeforeNewer(t *testing.T) {
	s := NewSlot()
	first := s.Begin()
	second := s.Begin()

	assert.False(t, s.Commit(first, &monitor.Report{Source: "first"}), "superseded before it finished")
	_, ok := s.Current()
	assert.False(t, ok)

	assert.True(t, s.Commit(second, &monitor.Report{Source: "second"}))
	r, _ := s.Current()
	assert.Equal(t, "second", r.Source)
}

func TestSlot_CommitOnce(t *testing.T) {
	s := NewSlot()
	ticket := s.Begin()
	require.True(t, s.Commit(ticket, &monitor.Report{Source: "a"}))
	assert.False(t, s.Commit(ticket, &monitor.Report{Source: "b"}))
	r, _ := s.Current()
	assert.Equal(t, "a", r.Source)
}

func TestSlot_UnissuedTicket(t *testing.T) {
	s := NewSlot()
	assert.False(t, s.Commit(7, &monitor.Report{}))
}

func TestSlot_Changed(t *testing.T) {
	s := NewSlot()
	ch := s.Changed()
	select {
	case <-ch:
		t.Fatal("changed before any commit")
	default:
	}

	stale := s.Begin()
	fresh := s.Begin()
	require.True(t, s.Commit(fresh, &monitor.Report{}))
	select {
	case <-ch:
	default:
		t.Fatal("commit did not signal")
	}

	next := s.Changed()
	assert.False(t, s.Commit(stale, &monitor.Report{}))
	select {
	case <-next:
		t.Fatal("rejected commit signalled")
	default:
	}
}

func TestSlot_Concurrent(t *testing.T) {
	s := NewSlot()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk := s.Begin()
			s.Commit(tk, &monitor.Report{})
		}()
	}
	wg.Wait()

	r, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(50), r.Generation, "the last issued ticket always publishes")
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	_, ok := h.Last()
	assert.False(t, ok)

	for i := 1; i <= 5; i++ {
		h.Push(Load{Generation: uint64(i)})
	}
	snap := h.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []uint64{3, 4, 5}, []uint64{snap[0].Generation, snap[1].Generation, snap[2].Generation})
	assert.Equal(t, uint64(2), h.Dropped())

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(5), last.Generation)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3, h.Cap())
}
