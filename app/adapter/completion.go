package adapter

const (
	CompletionTypeKeyword   = "kw"
	CompletionTypeFunction  = "fn"
	CompletionTypeAggregate = "agg"
)

// Completion is an autocompletion candidate for the host's editor.
type Completion struct {
	Label     string `json:"label"`
	TypeLabel string `json:"typeLabel"`
	Value     string `json:"value"`
	// Priority orders candidates with equal prefixes; lower goes first.
	Priority int `json:"priority"`
	// Context optionally restricts the candidate, e.g. to a database.
	Context string `json:"context,omitempty"`
}
