package session

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tbxark/docfill/validate"
)

// Operation is an RFC6902 patch op restricted to field values. Outer layers
// use it to correct an answer after the conversation moved past it.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

var amendPathRe = regexp.MustCompile(`^/fields/[0-9]+/value$`)

// Amend applies value corrections to a session. Only `/fields/<i>/value`
// paths are patchable; amended values are re-validated and the session is
// left untouched when anything is rejected.
func (m *Manager) Amend(ctx context.Context, id string, ops []Operation) (*Session, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, op := range ops {
		if !amendPathRe.MatchString(op.Path) {
			return nil, fmt.Errorf("path %s is not amendable", op.Path)
		}
		if op.Op != "add" && op.Op != "replace" && op.Op != "remove" {
			return nil, fmt.Errorf("op %q is not allowed on %s", op.Op, op.Path)
		}
	}

	current, err := sonic.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	ops = fixOps(sess, ops)

	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	modified, err := patch.Apply(current)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}

	var amended Session
	if err := sonic.Unmarshal(modified, &amended); err != nil {
		return nil, fmt.Errorf("patch result is not a valid session: %w", err)
	}
	for _, f := range amended.Fields {
		if !f.Filled() {
			continue
		}
		if err := validate.Validate(*f.Value, f); err != nil {
			return nil, fmt.Errorf("amended value for %s rejected: %w", f.Name, err)
		}
		f.SetValue(validate.Format(*f.Value, f))
	}

	amended.UpdatedAt = time.Now()
	if err := m.cache.Set(ctx, id, &amended); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &amended, nil
}

// fixOps rewrites replace to add for fields whose value is still unset:
// omitempty drops the null value key, so a plain replace would miss.
func fixOps(sess *Session, ops []Operation) []Operation {
	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		var idx int
		if _, err := fmt.Sscanf(op.Path, "/fields/%d/value", &idx); err == nil {
			if idx >= 0 && idx < len(sess.Fields) && !sess.Fields[idx].Filled() {
				switch op.Op {
				case "replace":
					op.Op = "add"
				case "remove":
					continue
				}
			}
		}
		fixed = append(fixed, op)
	}
	return fixed
}
