package session

import "github.com/cloudwego/eino/schema"

// HistoryWindow is the bounded context the extraction tiers read: the most
// recent six messages, i.e. three user/assistant exchanges.
const HistoryWindow = 6

type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepLastNTrimmer keeps the last N non-nil messages. When N <= 0 the
// history is dropped entirely.
type KeepLastNTrimmer struct {
	N int
}

func (t KeepLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		if m != nil {
			out = append(out, m)
		}
	}
	if t.N <= 0 {
		return nil
	}
	if len(out) <= t.N {
		return out
	}
	return out[len(out)-t.N:]
}
