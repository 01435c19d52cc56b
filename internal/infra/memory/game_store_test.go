package memory

import "testing"

func TestGameStoreLifecycle(t *testing.T) {
	store := NewGameStore()

	game := store.GetOrCreate("g1")
	if game == nil {
		t.Fatalf("expected game")
	}
	if again := store.GetOrCreate("g1"); again != game {
		t.Fatalf("expected same game instance for same id")
	}
	if _, ok := store.Get("g1"); !ok {
		t.Fatalf("expected game present")
	}

	store.Delete("g1")
	if _, ok := store.Get("g1"); ok {
		t.Fatalf("expected game removed")
	}
}
