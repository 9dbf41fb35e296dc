package clarify

import (
	"context"
	"fmt"
	"log/slog"
)

// FailbackClarifier tries each clarifier in order and returns the first
// success. With a LocalClarifier last it cannot fail in practice.
type FailbackClarifier struct {
	clarifiers []Clarifier
}

func NewFailbackClarifier(clarifiers ...Clarifier) *FailbackClarifier {
	return &FailbackClarifier{clarifiers: clarifiers}
}

func (c *FailbackClarifier) Clarify(ctx context.Context, req *Request) (string, error) {
	var lastErr error
	for _, clarifier := range c.clarifiers {
		question, err := clarifier.Clarify(ctx, req)
		if err == nil {
			return question, nil
		}
		slog.Debug("clarifier failed, falling back", "field", req.Field.Name, "err", err)
		lastErr = err
	}
	return "", fmt.Errorf("all clarifiers failed: %w", lastErr)
}

var (
	_ Clarifier = (*LocalClarifier)(nil)
	_ Clarifier = (*ToolBasedClarifier)(nil)
	_ Clarifier = (*FailbackClarifier)(nil)
)
