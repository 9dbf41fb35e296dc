package extract

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tbxark/docfill/types"
)

// PatternExtractor is the deterministic first tier. It always completes
// synchronously and never returns an error: either a pattern matches the
// message or the outcome is unclear.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

var (
	currencyRe  = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	bareNumRe   = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
	dateSlashRe = regexp.MustCompile(`\b([0-9]{1,2})/([0-9]{1,2})/([0-9]{4})\b`)
	dateDashRe  = regexp.MustCompile(`\b([0-9]{1,2})-([0-9]{1,2})-([0-9]{4})\b`)
	dateTextRe  = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+([0-9]{1,2}),?\s+([0-9]{4})\b`)
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	quotedRe    = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	companyRe   = regexp.MustCompile(`[A-Z][\w&.\-]*(?:\s+[A-Z][\w&.\-]*)*(?:,?\s+(?:Inc\.?|LLC|Corp\.?|Ltd\.?))?`)
	twoLetterRe = regexp.MustCompile(`\b[A-Z]{2}\b`)
	stateWordRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)
)

// fillerPhrases are stripped from the front of name/state/text answers so
// "the company name is Acme Corp" reduces to "Acme Corp". Matched longest
// phrase first.
var fillerPhrases = func() []string {
	phrases := []string{
		"it's", "the", "my", "our", "is", "are", "will be", "should be",
		"company name is", "investor name is", "name is",
	}
	sort.Slice(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })
	return phrases
}()

func (e *PatternExtractor) Extract(ctx context.Context, req *Request) (types.Outcome, error) {
	f := req.Field
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return types.Unclear(), nil
	}

	switch {
	case f.Type == types.FieldNumber:
		return extractNumber(message), nil
	case f.Type == types.FieldDate:
		return extractDate(message), nil
	case f.Type == types.FieldEmail:
		return extractEmail(message), nil
	case stateLike(f):
		return extractState(message), nil
	case nameLike(f):
		return extractName(message), nil
	default:
		return extractGenericText(message), nil
	}
}

func extractNumber(message string) types.Outcome {
	if m := currencyRe.FindStringSubmatch(message); m != nil {
		return types.Extracted(strings.ReplaceAll(m[1], ",", ""))
	}
	if m := bareNumRe.FindString(message); m != "" {
		return types.Extracted(strings.ReplaceAll(m, ",", ""))
	}
	return types.Unclear()
}

// extractDate tries MM/DD/YYYY, then MM-DD-YYYY, then "Month DD, YYYY"; the
// first form that parses to a real calendar date wins. The result is always
// canonical zero-padded MM/DD/YYYY.
func extractDate(message string) types.Outcome {
	if m := dateSlashRe.FindStringSubmatch(message); m != nil {
		if out, ok := canonicalDate(m[1], m[2], m[3]); ok {
			return types.Extracted(out)
		}
	}
	if m := dateDashRe.FindStringSubmatch(message); m != nil {
		if out, ok := canonicalDate(m[1], m[2], m[3]); ok {
			return types.Extracted(out)
		}
	}
	if m := dateTextRe.FindStringSubmatch(message); m != nil {
		t, err := time.Parse("January 2 2006", fmt.Sprintf("%s %s %s", titleMonth(m[1]), m[2], m[3]))
		if err == nil {
			return types.Extracted(t.Format("01/02/2006"))
		}
	}
	return types.Unclear()
}

func canonicalDate(month, day, year string) (string, bool) {
	t, err := time.Parse("1/2/2006", fmt.Sprintf("%s/%s/%s", month, day, year))
	if err != nil {
		return "", false
	}
	return t.Format("01/02/2006"), true
}

func titleMonth(m string) string {
	return strings.ToUpper(m[:1]) + strings.ToLower(m[1:])
}

func extractEmail(message string) types.Outcome {
	if m := emailRe.FindString(message); m != "" {
		return types.Extracted(m)
	}
	return types.Unclear()
}

func extractName(message string) types.Outcome {
	cleaned := stripFiller(message)
	if m := quotedRe.FindStringSubmatch(cleaned); m != nil {
		if m[1] != "" {
			return types.Extracted(m[1])
		}
		return types.Extracted(m[2])
	}
	if m := companyRe.FindString(cleaned); m != "" {
		return types.Extracted(strings.TrimSpace(m))
	}
	if cleaned != "" && len(cleaned) < 100 {
		return types.Extracted(cleaned)
	}
	return types.Unclear()
}

func extractState(message string) types.Outcome {
	cleaned := stripFiller(message)
	if m := twoLetterRe.FindString(cleaned); m != "" {
		return types.Extracted(m)
	}
	if m := stateWordRe.FindString(cleaned); m != "" {
		return types.Extracted(m)
	}
	return types.Unclear()
}

func extractGenericText(message string) types.Outcome {
	cleaned := stripFiller(message)
	if cleaned != "" && len(cleaned) < 200 {
		return types.Extracted(cleaned)
	}
	return types.Unclear()
}

func stripFiller(message string) string {
	cleaned := strings.TrimSpace(message)
	for {
		stripped := false
		lower := strings.ToLower(cleaned)
		for _, phrase := range fillerPhrases {
			if lower == phrase {
				return ""
			}
			if strings.HasPrefix(lower, phrase+" ") {
				cleaned = strings.TrimSpace(cleaned[len(phrase):])
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.TrimRight(cleaned, ".!?,;: ")
}
