package extract

import (
	"context"
	"log/slog"

	"github.com/tbxark/docfill/types"
)

// TieredExtractor runs its tiers in order and takes the first extracted
// value. A tier error is absorbed: it is logged at debug level and the
// pipeline degrades to the next tier, so an unreachable or misbehaving
// model tier can never surface to the user.
type TieredExtractor struct {
	tiers []Extractor
}

func NewTieredExtractor(tiers ...Extractor) *TieredExtractor {
	return &TieredExtractor{tiers: tiers}
}

func (t *TieredExtractor) Extract(ctx context.Context, req *Request) (types.Outcome, error) {
	for _, tier := range t.tiers {
		out, err := tier.Extract(ctx, req)
		if err != nil {
			slog.Debug("extraction tier failed, degrading", "field", req.Field.Name, "err", err)
			continue
		}
		if out.Kind == types.OutcomeExtracted {
			return out, nil
		}
	}
	return types.Unclear(), nil
}

var (
	_ Extractor = (*TieredExtractor)(nil)
	_ Extractor = (*PatternExtractor)(nil)
	_ Extractor = (*ToolBasedExtractor)(nil)
)
