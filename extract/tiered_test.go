package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/tbxark/docfill/types"
)

type stubExtractor struct {
	outcome types.Outcome
	err     error
	calls   int
}

func (s *stubExtractor) Extract(ctx context.Context, req *Request) (types.Outcome, error) {
	s.calls++
	return s.outcome, s.err
}

func TestTieredFirstExtractedWins(t *testing.T) {
	t.Parallel()
	first := &stubExtractor{outcome: types.Extracted("Acme")}
	second := &stubExtractor{outcome: types.Extracted("never used")}
	tiered := NewTieredExtractor(first, second)

	out, err := tiered.Extract(context.Background(), &Request{Field: field("COMPANY_NAME", types.FieldText, "Company Name"), Message: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != "Acme" {
		t.Errorf("got %q, want Acme", out.Value)
	}
	if second.calls != 0 {
		t.Errorf("second tier should not run after a hit, ran %d times", second.calls)
	}
}

func TestTieredDegradesPastUnclear(t *testing.T) {
	t.Parallel()
	first := &stubExtractor{outcome: types.Unclear()}
	second := &stubExtractor{outcome: types.Extracted("DE")}
	tiered := NewTieredExtractor(first, second)

	out, err := tiered.Extract(context.Background(), &Request{Field: field("STATE", types.FieldState, "State"), Message: "DE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != "DE" {
		t.Errorf("got %q, want DE", out.Value)
	}
}

func TestTieredAbsorbsTierFailure(t *testing.T) {
	t.Parallel()
	broken := &stubExtractor{err: errors.New("connection refused")}
	tiered := NewTieredExtractor(broken)

	out, err := tiered.Extract(context.Background(), &Request{Field: field("AMOUNT", types.FieldNumber, "Amount"), Message: "hm"})
	if err != nil {
		t.Fatalf("tier failure must not propagate, got %v", err)
	}
	if out.Kind != types.OutcomeUnclear {
		t.Errorf("expected unclear after total degradation, got %+v", out)
	}
}

func TestTieredAllUnclear(t *testing.T) {
	t.Parallel()
	tiered := NewTieredExtractor(&stubExtractor{outcome: types.Unclear()}, &stubExtractor{outcome: types.Unclear()})
	out, err := tiered.Extract(context.Background(), &Request{Field: field("AMOUNT", types.FieldNumber, "Amount"), Message: "?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != types.OutcomeUnclear {
		t.Errorf("expected unclear, got %+v", out)
	}
}
