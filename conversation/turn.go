// Package conversation sequences the fill-in dialogue: which field is
// current, how a user message moves it forward, and what the assistant says
// next.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/docfill/clarify"
	"github.com/tbxark/docfill/extract"
	"github.com/tbxark/docfill/types"
	"github.com/tbxark/docfill/validate"
)

// Result is everything one turn produces. Completed reports whether every
// field now has a value; FilledField is the field this turn filled, nil when
// the turn only produced feedback or a clarification.
type Result struct {
	Message     string
	Completed   bool
	FilledField *types.Field
}

// Orchestrator drives extractor and clarifier over a field list. Each Turn
// is a pure function of (fields, history, message); the only mutation is the
// value assignment on the current field, so callers must serialize turns per
// conversation.
type Orchestrator struct {
	extractor extract.Extractor
	clarifier clarify.Clarifier
	fallback  *clarify.LocalClarifier
}

func New(extractor extract.Extractor, clarifier clarify.Clarifier) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		clarifier: clarifier,
		fallback:  clarify.NewLocalClarifier(),
	}
}

var confirmationWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "correct": true,
	"right": true, "sure": true, "ok": true, "okay": true,
}

// IsConfirmation reports whether message is a bare acknowledgment that
// should advance the conversation without being consumed as a value.
func IsConfirmation(message string) bool {
	return confirmationWords[strings.ToLower(strings.TrimSpace(message))]
}

func (o *Orchestrator) Turn(ctx context.Context, fields []*types.Field, history []*schema.Message, message string) (*Result, error) {
	current := types.FirstUnfilled(fields)
	if current == nil {
		return &Result{Message: completionMessage(), Completed: true}, nil
	}

	if IsConfirmation(message) {
		return &Result{Message: prompt(current)}, nil
	}

	req := &extract.Request{Field: current, History: history, Message: message}
	outcome, err := o.extractor.Extract(ctx, req)
	if err != nil {
		// Extractor pipelines absorb tier failures themselves; an error here
		// means the pipeline is miswired, not that the message was unclear.
		return nil, fmt.Errorf("extract value for %s: %w", current.Name, err)
	}
	slog.Debug("extraction outcome", "field", current.Name, "kind", outcome.Kind)

	switch outcome.Kind {
	case types.OutcomeExtracted:
		return o.applyValue(fields, current, outcome.Value), nil
	case types.OutcomeInvalid:
		return &Result{Message: outcome.Reason}, nil
	default:
		return &Result{Message: o.clarifyOrTemplate(ctx, req)}, nil
	}
}

func (o *Orchestrator) applyValue(fields []*types.Field, current *types.Field, raw string) *Result {
	if err := validate.Validate(raw, current); err != nil {
		return &Result{Message: err.Error()}
	}
	current.SetValue(validate.Format(raw, current))
	slog.Debug("field filled", "field", current.Name, "value", *current.Value)

	ack := fmt.Sprintf("Got it — %s: %s.", current.Description, *current.Value)
	next := types.FirstUnfilled(fields)
	if next == nil {
		return &Result{
			Message:     ack + " " + completionMessage(),
			Completed:   true,
			FilledField: current,
		}
	}
	return &Result{
		Message:     ack + " " + prompt(next),
		FilledField: current,
	}
}

func (o *Orchestrator) clarifyOrTemplate(ctx context.Context, req *extract.Request) string {
	creq := &clarify.Request{Field: req.Field, History: req.History, Message: req.Message}
	if o.clarifier != nil {
		question, err := o.clarifier.Clarify(ctx, creq)
		if err == nil {
			return question
		}
		slog.Debug("clarifier failed, using template", "field", req.Field.Name, "err", err)
	}
	question, _ := o.fallback.Clarify(ctx, creq)
	return question
}

func prompt(field *types.Field) string {
	return fmt.Sprintf("What is the %s? (%s)", field.Description, types.TypeHint(field.Type))
}

func completionMessage() string {
	return "All fields are filled in. You can generate the completed document now."
}
