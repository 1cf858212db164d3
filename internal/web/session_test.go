package web

import (
	"sync"
	"testing"
	"time"
)

func TestSessionAppendAndTurns(t *testing.T) {
	t.Parallel()

	m := NewSessionManager()
	s := m.Create()

	s.Append(
		Turn{Speaker: SpeakerUser, Text: "hello"},
		Turn{Speaker: SpeakerAssistant, Text: "hi"},
	)

	turns := s.Turns()
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Speaker != SpeakerUser || turns[1].Speaker != SpeakerAssistant {
		t.Errorf("turn order wrong: %+v", turns)
	}

	// The returned slice is a copy.
	turns[0].Text = "mutated"
	if s.Turns()[0].Text != "hello" {
		t.Error("Turns() exposed internal transcript state")
	}
}

func TestSessionManagerGetUnknownID(t *testing.T) {
	t.Parallel()

	m := NewSessionManager()
	if _, ok := m.Get("nope"); ok {
		t.Error("Get() returned a session for an unknown id")
	}
}

func TestSessionManagerSessionsAreIndependent(t *testing.T) {
	t.Parallel()

	m := NewSessionManager()
	a := m.Create()
	b := m.Create()

	if a.ID == b.ID {
		t.Fatal("two sessions share an id")
	}

	a.Append(Turn{Speaker: SpeakerUser, Text: "only in a"})

	if len(b.Turns()) != 0 {
		t.Error("transcript leaked between sessions")
	}
}

func TestSessionManagerPruneIdle(t *testing.T) {
	t.Parallel()

	m := NewSessionManager()
	stale := m.Create()
	fresh := m.Create()

	// Age the stale session past the TTL.
	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	removed := m.PruneIdle(time.Hour)
	if removed != 1 {
		t.Fatalf("PruneIdle() removed %d sessions, want 1", removed)
	}
	if _, ok := m.Get(stale.ID); ok {
		t.Error("stale session still present after prune")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("fresh session was pruned")
	}
}

func TestSessionConcurrentAppend(t *testing.T) {
	t.Parallel()

	m := NewSessionManager()
	s := m.Create()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(Turn{Speaker: SpeakerUser, Text: "x"})
		}()
	}
	wg.Wait()

	if got := len(s.Turns()); got != 10 {
		t.Errorf("got %d turns after concurrent appends, want 10", got)
	}
}
