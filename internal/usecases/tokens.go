package usecases

const (
	// MinOutputTokens is the budget reserved for a reply; requests that
	// cannot cover input plus this reserve are refused.
	MinOutputTokens = 20

	// MaxOutputTokens caps the per-request output budget.
	MaxOutputTokens = 2048
)

// EstimateTokens is a rough token estimate: one token per ~4 characters.
// Intentionally simple to avoid a tokenizer dependency.
func EstimateTokens(text string) int {
	if text == "" {
		return 1
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
