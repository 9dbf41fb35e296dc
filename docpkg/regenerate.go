package docpkg

import (
	"github.com/tbxark/docfill/types"
)

// Regenerate substitutes final field values into the original package and
// returns the new package bytes. Only fields with a value are substituted;
// an unfilled field's marker is left as authored. Failure leaves the
// caller's session untouched, so document generation can simply be retried.
func Regenerate(original []byte, fields []*types.Field) ([]byte, error) {
	pkg, err := Open(original)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	for _, f := range fields {
		if f.Filled() {
			values[f.OriginalText] = *f.Value
		}
	}
	return pkg.Substitute(values)
}
