package session

import "testing"

func TestMemoryStoreGetReturnsFreshSession(t *testing.T) {
	store := NewMemoryStore()

	sess := store.Get(1)
	if sess.Step != StepUnstarted {
		t.Fatalf("expected unstarted session, got %s", sess.Step)
	}

	// Unsaved sessions are not shared between calls.
	sess.DisplayName = "Ivan"
	if got := store.Get(1); got.DisplayName != "" {
		t.Fatalf("unsaved mutation leaked into store: %+v", got)
	}
}

func TestMemoryStorePutAndClear(t *testing.T) {
	store := NewMemoryStore()

	sess := New()
	sess.Step = StepAwaitingName
	sess.DisplayName = "Ivan Petrov"
	store.Put(42, sess)

	got := store.Get(42)
	if got.Step != StepAwaitingName || got.DisplayName != "Ivan Petrov" {
		t.Fatalf("unexpected stored session: %+v", got)
	}

	store.Clear(42)
	if got := store.Get(42); got.Step != StepUnstarted {
		t.Fatalf("expected cleared session, got %+v", got)
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	store := NewMemoryStore()

	a := New()
	a.Step = StepAwaitingPhoto
	store.Put(1, a)

	if got := store.Get(2); got.Step != StepUnstarted {
		t.Fatalf("sessions leaked across users: %+v", got)
	}
}
