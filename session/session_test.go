package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tbxark/docfill/clarify"
	"github.com/tbxark/docfill/conversation"
	"github.com/tbxark/docfill/detect"
	"github.com/tbxark/docfill/extract"
)

func newTestManager() *Manager {
	orchestrator := conversation.New(
		extract.NewTieredExtractor(extract.NewPatternExtractor()),
		clarify.NewLocalClarifier(),
	)
	return NewManager(orchestrator, nil)
}

func startSession(t *testing.T, m *Manager) *Session {
	t.Helper()
	fields := detect.Detect("Between [COMPANY_NAME] and [INVESTOR_NAME] for $[AMOUNT]")
	sess, err := m.Start(context.Background(), fields)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return sess
}

func TestManagerTurnPersistsProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestManager()
	sess := startSession(t, m)

	if _, err := m.Turn(ctx, sess.ID, "the company name is Acme Corp"); err != nil {
		t.Fatalf("turn: %v", err)
	}
	loaded, err := m.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !loaded.Fields[0].Filled() || *loaded.Fields[0].Value != "Acme Corp" {
		t.Fatalf("progress not persisted: %+v", loaded.Fields[0])
	}
	if len(loaded.History) != 2 {
		t.Errorf("expected one exchange in history, got %d messages", len(loaded.History))
	}
}

func TestManagerHistoryBounded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestManager()
	sess := startSession(t, m)

	for i := 0; i < 10; i++ {
		if _, err := m.Turn(ctx, sess.ID, fmt.Sprintf("noise %d?", i)); err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}
	loaded, err := m.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.History) != HistoryWindow {
		t.Errorf("history should be trimmed to %d messages, got %d", HistoryWindow, len(loaded.History))
	}
}

func TestManagerUnknownSession(t *testing.T) {
	t.Parallel()
	m := newTestManager()
	if _, err := m.Turn(context.Background(), "nope", "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestManager()
	sess := startSession(t, m)
	if _, err := m.Turn(ctx, sess.ID, "Acme Corp"); err != nil {
		t.Fatalf("turn: %v", err)
	}

	data, err := m.Checkpoint(ctx, sess.ID)
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	before, _ := m.Get(ctx, sess.ID)
	if err := m.Remove(ctx, sess.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	restored, err := m.Restore(ctx, data)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(before.Fields, restored.Fields); diff != "" {
		t.Errorf("restored fields differ (-before +restored):\n%s", diff)
	}
}

func TestRestoreRejectsBadCheckpoint(t *testing.T) {
	t.Parallel()
	m := newTestManager()
	if _, err := m.Restore(context.Background(), []byte(`{"version":"9.9","session":{"id":"x"}}`)); err == nil {
		t.Error("expected version mismatch error")
	}
	if _, err := m.Restore(context.Background(), []byte(`not json`)); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestAmendReplacesValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestManager()
	sess := startSession(t, m)
	if _, err := m.Turn(ctx, sess.ID, "Acme Corp"); err != nil {
		t.Fatalf("turn: %v", err)
	}

	amended, err := m.Amend(ctx, sess.ID, []Operation{
		{Op: "replace", Path: "/fields/0/value", Value: "Acme Holdings"},
	})
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if *amended.Fields[0].Value != "Acme Holdings" {
		t.Errorf("value = %q, want Acme Holdings", *amended.Fields[0].Value)
	}
}

func TestAmendFillsUnsetValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestManager()
	sess := startSession(t, m)

	// replace on an unset value is rewritten to add.
	amended, err := m.Amend(ctx, sess.ID, []Operation{
		{Op: "replace", Path: "/fields/2/value", Value: "2000000"},
	})
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if !amended.Fields[2].Filled() || *amended.Fields[2].Value != "2,000,000" {
		t.Errorf("amended value should be validated and formatted, got %+v", amended.Fields[2])
	}
}

func TestAmendGuardsPaths(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestManager()
	sess := startSession(t, m)

	for _, op := range []Operation{
		{Op: "replace", Path: "/id", Value: "hijack"},
		{Op: "replace", Path: "/fields/0/name", Value: "OTHER"},
		{Op: "move", Path: "/fields/0/value"},
	} {
		if _, err := m.Amend(ctx, sess.ID, []Operation{op}); err == nil {
			t.Errorf("op %+v should be rejected", op)
		}
	}
}

func TestAmendRejectsInvalidValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newTestManager()
	sess := startSession(t, m)

	if _, err := m.Amend(ctx, sess.ID, []Operation{
		{Op: "replace", Path: "/fields/2/value", Value: "not a number"},
	}); err == nil {
		t.Fatal("invalid amended value should be rejected")
	}
	loaded, err := m.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Fields[2].Filled() {
		t.Error("session should be unchanged after a rejected amendment")
	}
}

func TestKeepLastNTrimmer(t *testing.T) {
	t.Parallel()
	trimmer := KeepLastNTrimmer{N: 2}
	history := trimmer.Trim(nil)
	if len(history) != 0 {
		t.Errorf("trim of nil should be empty, got %d", len(history))
	}
}
