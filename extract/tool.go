package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/docfill/structured"
	"github.com/tbxark/docfill/types"
)

const (
	extractToolName        = "extract_field_value"
	extractToolDescription = "Report whether the user message contains a value for the target field, and the raw value if so."

	// DefaultTimeout bounds the single model attempt. Expiry degrades to the
	// next tier exactly like a transport failure.
	DefaultTimeout = 15 * time.Second
)

type extractFieldArgs struct {
	Status string `json:"status" jsonschema:"required,enum=extracted,enum=unclear,description=Whether the user message contains a usable value for the target field"`
	Value  string `json:"value,omitempty" jsonschema:"description=The raw value taken from the message when status is extracted"`
}

// ToolBasedExtractor is the second tier: a chat model asked for a single
// forced tool call against the bounded extraction context. It is optional;
// the pipeline is fully functional without one configured.
type ToolBasedExtractor struct {
	chain *structured.Chain[*Request, extractFieldArgs]
}

func NewToolBasedExtractor(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedExtractor, error) {
	chain, err := structured.NewChain[*Request, extractFieldArgs](
		chatModel,
		buildExtractPrompt,
		extractToolName,
		extractToolDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("create extract chain: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	chain.Timeout = timeout
	return &ToolBasedExtractor{chain: chain}, nil
}

func (e *ToolBasedExtractor) Extract(ctx context.Context, req *Request) (types.Outcome, error) {
	result, err := e.chain.Invoke(ctx, req)
	if err != nil {
		return types.Unclear(), err
	}
	value := strings.TrimSpace(result.Value)
	if result.Status != "extracted" || value == "" {
		return types.Unclear(), nil
	}
	return types.Extracted(value), nil
}

func buildExtractPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are an assistant for a document-filling robot. One field of a legal agreement is being collected at a time.

Read the target field, the recent conversation and the user's latest message, then decide whether the message supplies a value for that field.

- Only report status "extracted" when the message clearly contains the value. Copy the value as the user stated it; do not invent, complete or reformat it beyond expanding obvious shorthand (e.g. "2M" means 2000000).
- Report status "unclear" for questions, chatter, refusals, or anything that does not pin down the value.

Call the '%s' tool with the result.`, extractToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatExtractionContext(req.Field, req.History, req.Message)),
	}, nil
}
