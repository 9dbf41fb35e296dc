package types

// FieldType drives validation, formatting and clarification wording for a
// single fillable slot.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldDate   FieldType = "date"
	FieldNumber FieldType = "number"
	FieldEmail  FieldType = "email"
	FieldState  FieldType = "state"
)

// Field is one fillable slot detected in a document. Name is the normalized
// upper-snake identifier; OriginalText is the literal bracket content as
// authored, which the regenerator keys substitution on.
type Field struct {
	Name         string    `json:"name"`
	OriginalText string    `json:"original_text"`
	Type         FieldType `json:"type"`
	Description  string    `json:"description"`
	Value        *string   `json:"value,omitempty"`
}

func (f *Field) Filled() bool {
	return f != nil && f.Value != nil
}

// SetValue assigns a formatted value. Only the orchestrator calls this after
// a successful validation.
func (f *Field) SetValue(v string) {
	f.Value = &v
}

// FirstUnfilled returns the current field of a conversation: the first field
// in list order without a value, or nil when the list is complete.
func FirstUnfilled(fields []*Field) *Field {
	for _, f := range fields {
		if !f.Filled() {
			return f
		}
	}
	return nil
}

func AllFilled(fields []*Field) bool {
	return FirstUnfilled(fields) == nil
}

// OutcomeKind tags the result of one extraction attempt.
type OutcomeKind string

const (
	OutcomeExtracted OutcomeKind = "extracted"
	OutcomeUnclear   OutcomeKind = "unclear"
	OutcomeInvalid   OutcomeKind = "invalid"
)

// Outcome is the tagged result of running an extractor against one field.
// Value is set only for OutcomeExtracted, Reason only for OutcomeInvalid.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Value  string      `json:"value,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

func Extracted(value string) Outcome {
	return Outcome{Kind: OutcomeExtracted, Value: value}
}

func Unclear() Outcome {
	return Outcome{Kind: OutcomeUnclear}
}

func Invalid(reason string) Outcome {
	return Outcome{Kind: OutcomeInvalid, Reason: reason}
}

// TypeHint returns a short formatting hint for prompts and clarifications.
func TypeHint(t FieldType) string {
	switch t {
	case FieldDate:
		return "MM/DD/YYYY, e.g. 12/15/2024"
	case FieldNumber:
		return "a positive number, e.g. 1,000,000"
	case FieldEmail:
		return "an email address, e.g. founder@company.com"
	case FieldState:
		return "a two-letter state code, e.g. DE"
	default:
		return "plain text"
	}
}
