package clarify

import (
	"context"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/docfill/types"
)

// Request describes the field the conversation is stuck on and the message
// that neither extraction tier could use.
type Request struct {
	Field   *types.Field
	History []*schema.Message
	Message string
}

// Clarifier produces the question sent back to the user when no value could
// be extracted for the current field.
type Clarifier interface {
	Clarify(ctx context.Context, req *Request) (string, error)
}
