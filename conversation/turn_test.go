package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/tbxark/docfill/clarify"
	"github.com/tbxark/docfill/detect"
	"github.com/tbxark/docfill/extract"
	"github.com/tbxark/docfill/types"
)

func newLocalOrchestrator() *Orchestrator {
	return New(
		extract.NewTieredExtractor(extract.NewPatternExtractor()),
		clarify.NewLocalClarifier(),
	)
}

func scenarioFields(t *testing.T) []*types.Field {
	t.Helper()
	fields := detect.Detect("This is between [COMPANY_NAME] and [INVESTOR_NAME] for $[AMOUNT]")
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	return fields
}

func TestTurnFillsFieldsInOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o := newLocalOrchestrator()
	fields := scenarioFields(t)

	result, err := o.Turn(ctx, fields, nil, "the company name is Acme Corp")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.Completed {
		t.Error("conversation should not be complete yet")
	}
	if !fields[0].Filled() || *fields[0].Value != "Acme Corp" {
		t.Fatalf("COMPANY_NAME not filled: %+v", fields[0])
	}
	if !strings.Contains(result.Message, "Investor Name") {
		t.Errorf("response should prompt for the next field, got %q", result.Message)
	}

	if _, err := o.Turn(ctx, fields, nil, `it's "Hooli Ventures"`); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if !fields[1].Filled() || *fields[1].Value != "Hooli Ventures" {
		t.Fatalf("INVESTOR_NAME not filled: %+v", fields[1])
	}
}

func TestTurnImplausibleAmountThenCorrection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o := newLocalOrchestrator()
	fields := scenarioFields(t)
	company := "Acme"
	investor := "Hooli"
	fields[0].Value = &company
	fields[1].Value = &investor

	// "$2M" extracts as the bare token "2"; the validator flags it.
	result, err := o.Turn(ctx, fields, nil, "$2M")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if fields[2].Filled() {
		t.Fatal("AMOUNT should stay unfilled after implausible value")
	}
	if !strings.Contains(result.Message, "low") {
		t.Errorf("expected implausibly-low feedback, got %q", result.Message)
	}

	result, err = o.Turn(ctx, fields, nil, "2000000")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if !fields[2].Filled() || *fields[2].Value != "2,000,000" {
		t.Fatalf("AMOUNT not formatted and filled: %+v", fields[2])
	}
	if !result.Completed {
		t.Error("last field filled, expected completion")
	}
}

func TestTurnConfirmationAdvancesWithoutConsuming(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o := newLocalOrchestrator()
	fields := scenarioFields(t)

	result, err := o.Turn(ctx, fields, nil, "ok")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if fields[0].Filled() {
		t.Error("a confirmation word must not be consumed as a value")
	}
	if !strings.Contains(result.Message, "Company Name") {
		t.Errorf("expected a prompt for the current field, got %q", result.Message)
	}
}

func TestTurnUnclearYieldsClarification(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o := newLocalOrchestrator()
	company := "Acme"
	investor := "Hooli"
	fields := scenarioFields(t)
	fields[0].Value = &company
	fields[1].Value = &investor

	result, err := o.Turn(ctx, fields, nil, "whatever you think is fair")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if fields[2].Filled() {
		t.Error("field should stay unfilled on an unclear message")
	}
	if !strings.Contains(result.Message, "number") {
		t.Errorf("expected a number clarification, got %q", result.Message)
	}
}

func TestTurnOnCompleteList(t *testing.T) {
	t.Parallel()
	o := newLocalOrchestrator()
	fields := scenarioFields(t)
	for _, f := range fields {
		f.SetValue("x")
	}
	result, err := o.Turn(context.Background(), fields, nil, "yes")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if !result.Completed {
		t.Error("expected terminal completion state")
	}
}

func TestIsConfirmation(t *testing.T) {
	t.Parallel()
	for _, word := range []string{"yes", "Yeah", "YEP", "correct", "right", "sure", "ok", " Okay "} {
		if !IsConfirmation(word) {
			t.Errorf("IsConfirmation(%q) = false, want true", word)
		}
	}
	for _, word := range []string{"yes please", "no", "2000000", ""} {
		if IsConfirmation(word) {
			t.Errorf("IsConfirmation(%q) = true, want false", word)
		}
	}
}
