package service

import (
	"context"
	"testing"
)

func TestMemoryStateStore_RoundTrip(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	state, err := store.Get(ctx, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if state.State != StateIdle {
		t.Fatalf("fresh chat should be idle, got %q", state.State)
	}

	want := DialogState{State: StateWaitingName, Birthdate: "1990-05-15"}
	if err := store.Set(ctx, 100, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	// Otro chat no ve el estado ajeno.
	other, err := store.Get(ctx, 200)
	if err != nil {
		t.Fatalf("get other: %v", err)
	}
	if other.State != StateIdle {
		t.Fatalf("other chat should be idle, got %+v", other)
	}

	if err := store.Clear(ctx, 100); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = store.Get(ctx, 100)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if got.State != StateIdle || got.Birthdate != "" {
		t.Fatalf("expected cleared state, got %+v", got)
	}
}
