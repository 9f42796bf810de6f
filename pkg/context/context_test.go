package context

import (
	"testing"
	"time"
)

func setup(t *testing.T) {
	t.Helper()
	t.Setenv("PROMORANG_CONFIG_DIR", t.TempDir())
	Reset()
	t.Cleanup(Reset)
}

func TestResolveTarget_Explicit(t *testing.T) {
	setup(t)
	got, fromCtx, err := ResolveTarget("42", TypeContent)
	if err != nil || got != "42" || fromCtx {
		t.Fatalf("ResolveTarget = %q, %v, %v", got, fromCtx, err)
	}
}

func TestResolveTarget_This(t *testing.T) {
	setup(t)

	if _, _, err := ResolveTarget("this", TypeContent); err == nil {
		t.Fatal("expected error without context")
	}

	if err := Set("42", TypeContent); err != nil {
		t.Fatalf("Set: %v", err)
	}
	Reset()

	got, fromCtx, err := ResolveTarget("this", TypeContent)
	if err != nil || got != "42" || !fromCtx {
		t.Fatalf("ResolveTarget = %q, %v, %v", got, fromCtx, err)
	}

	if _, _, err := ResolveTarget("this", TypeUser); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestLoad_Expired(t *testing.T) {
	setup(t)

	if err := Save(&Context{LastID: "7", LastType: TypeContent, UpdatedAt: time.Now().Add(-2 * ContextTTL)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	Reset()

	if _, err := Load(); err == nil {
		t.Error("expected expired context")
	}
}

func TestClear(t *testing.T) {
	setup(t)

	if err := Set("7", TypeUser); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := GetID(); err == nil {
		t.Error("expected no context after Clear")
	}
	if err := Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
