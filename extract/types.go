package extract

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/docfill/types"
)

// Request targets exactly one unfilled field. History is the bounded recent
// window (last six messages), not the full conversation.
type Request struct {
	Field   *types.Field
	History []*schema.Message
	Message string
}

// Extractor is one tier of the extraction pipeline. A tier that finds
// nothing returns an unclear outcome and no error; errors are reserved for
// transport-level failures that the tiered pipeline absorbs.
type Extractor interface {
	Extract(ctx context.Context, req *Request) (types.Outcome, error)
}

func nameLike(f *types.Field) bool {
	target := strings.ToLower(f.Name + " " + f.Description)
	return strings.Contains(target, "name")
}

func stateLike(f *types.Field) bool {
	return f.Type == types.FieldState || strings.Contains(f.Name, "STATE")
}
