package session

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/tbxark/docfill/conversation"
	"github.com/tbxark/docfill/types"
)

const checkpointVersion = "1.0"

// Session is one conversation over one detected field list. History is
// already trimmed to the bounded window on every save.
type Session struct {
	ID        string            `json:"id"`
	Fields    []*types.Field    `json:"fields"`
	History   []*schema.Message `json:"history,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (s *Session) Completed() bool {
	return types.AllFilled(s.Fields)
}

// Manager owns session lifecycle and drives the orchestrator for each turn.
type Manager struct {
	orchestrator *conversation.Orchestrator
	cache        Cache[*Session]
	trimmer      Trimmer
}

func NewManager(orchestrator *conversation.Orchestrator, cache Cache[*Session]) *Manager {
	if cache == nil {
		cache = NewMemoryCache[*Session]()
	}
	return &Manager{
		orchestrator: orchestrator,
		cache:        cache,
		trimmer:      KeepLastNTrimmer{N: HistoryWindow},
	}
}

// Start creates a session over a detected field list.
func (m *Manager) Start(ctx context.Context, fields []*types.Field) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.cache.Set(ctx, sess.ID, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	sess, ok, err := m.cache.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (m *Manager) Remove(ctx context.Context, id string) error {
	return m.cache.Del(ctx, id)
}

// Turn feeds one user message through the orchestrator and persists the
// updated field list and history.
func (m *Manager) Turn(ctx context.Context, id string, message string) (*conversation.Result, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := m.orchestrator.Turn(ctx, sess.Fields, sess.History, message)
	if err != nil {
		return nil, err
	}

	sess.History = m.trimmer.Trim(append(sess.History,
		schema.UserMessage(message),
		schema.AssistantMessage(result.Message, nil),
	))
	sess.UpdatedAt = time.Now()
	if err := m.cache.Set(ctx, id, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return result, nil
}

type checkpoint struct {
	Version string   `json:"version"`
	Session *Session `json:"session"`
}

// Checkpoint serializes a session so an outer layer can park it outside the
// volatile cache.
func (m *Manager) Checkpoint(ctx context.Context, id string) ([]byte, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := sonic.Marshal(checkpoint{Version: checkpointVersion, Session: sess})
	if err != nil {
		return nil, fmt.Errorf("marshal checkpoint: %w", err)
	}
	return data, nil
}

// Restore loads a checkpoint back into the cache under its original id.
func (m *Manager) Restore(ctx context.Context, data []byte) (*Session, error) {
	var cp checkpoint
	if err := sonic.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	if cp.Version != checkpointVersion {
		return nil, fmt.Errorf("incompatible checkpoint version: %s (expected %s)", cp.Version, checkpointVersion)
	}
	if cp.Session == nil || cp.Session.ID == "" {
		return nil, fmt.Errorf("checkpoint carries no session")
	}
	if err := m.cache.Set(ctx, cp.Session.ID, cp.Session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return cp.Session, nil
}
