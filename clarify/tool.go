package clarify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/docfill/types"
)

// DefaultClarifySystemPrompt steers the model toward one short question with
// a concrete format hint for the stuck field.
const DefaultClarifySystemPrompt = `You are a friendly assistant helping someone complete a legal agreement one field at a time.

The user's last message did not contain a usable value for the current field. Ask one short, natural question that:
- names the field in plain language,
- includes the expected format from the context,
- stays under two sentences,
- never scolds the user or mentions extraction internals.`

type toolClarifierOptions struct {
	systemPrompt string
	timeout      time.Duration
}

type Option func(*toolClarifierOptions)

// WithSystemPrompt overrides the clarification system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *toolClarifierOptions) {
		o.systemPrompt = prompt
	}
}

// WithTimeout bounds the single model attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(o *toolClarifierOptions) {
		o.timeout = timeout
	}
}

// ToolBasedClarifier asks a chat model for the clarification. It makes one
// bounded attempt; any failure is surfaced as an error so a failback chain
// can fall through to the templated clarifier.
type ToolBasedClarifier struct {
	systemPrompt string
	timeout      time.Duration
	chatModel    model.ToolCallingChatModel
}

func NewToolBasedClarifier(chatModel model.ToolCallingChatModel, opts ...Option) *ToolBasedClarifier {
	options := toolClarifierOptions{
		systemPrompt: DefaultClarifySystemPrompt,
		timeout:      15 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return &ToolBasedClarifier{
		systemPrompt: options.systemPrompt,
		timeout:      options.timeout,
		chatModel:    chatModel,
	}
}

func (c *ToolBasedClarifier) Clarify(ctx context.Context, req *Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []*schema.Message{
		schema.SystemMessage(c.systemPrompt),
		schema.UserMessage(types.FormatExtractionContext(req.Field, req.History, req.Message)),
	}
	response, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	question := strings.TrimSpace(response.Content)
	if question == "" {
		return "", fmt.Errorf("empty clarification from model")
	}
	return question, nil
}
