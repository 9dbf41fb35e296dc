package clarify

import (
	"context"
	"fmt"

	"github.com/tbxark/docfill/types"
)

// LocalClarifier is the deterministic fallback: a templated question keyed
// by field type. It never fails, which makes it the terminal member of any
// failback chain.
type LocalClarifier struct{}

func NewLocalClarifier() *LocalClarifier {
	return &LocalClarifier{}
}

func (c *LocalClarifier) Clarify(ctx context.Context, req *Request) (string, error) {
	f := req.Field
	switch f.Type {
	case types.FieldNumber:
		return fmt.Sprintf("I couldn't find a number in that. What should the %s be? Please give %s.", f.Description, types.TypeHint(f.Type)), nil
	case types.FieldDate:
		return fmt.Sprintf("I couldn't read a date there. What is the %s? Please use %s.", f.Description, types.TypeHint(f.Type)), nil
	case types.FieldEmail:
		return fmt.Sprintf("That didn't look like an email address. What is the %s? For example: %s.", f.Description, types.TypeHint(f.Type)), nil
	case types.FieldState:
		return fmt.Sprintf("I couldn't identify a state. What is the %s? You can use %s.", f.Description, types.TypeHint(f.Type)), nil
	default:
		return fmt.Sprintf("Sorry, I didn't catch that. What should the %s be?", f.Description), nil
	}
}
