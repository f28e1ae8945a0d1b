package domain

// Policy processing limits and fixed messages.
const (
	// MinContentLength is the minimum normalised length, in characters,
	// a policy must have before it is embedded or analysed.
	MinContentLength = 100

	// SummaryContextChars bounds the prefix of a policy sent to the LLM for
	// summaries and reports. Longer policies are judged on their lead content.
	SummaryContextChars = 15000

	// RawResponsePreviewChars bounds the raw model output kept in fallback reports.
	RawResponsePreviewChars = 500

	// DefaultTopK is the number of chunks retrieved per search query.
	DefaultTopK = 4

	// ExpansionVariants is the number of paraphrases requested per question.
	ExpansionVariants = 2

	// ContentTooShortSummary is the summary reported when ingestion is refused.
	ContentTooShortSummary = "Error: Content too short to analyze."

	// NotFoundAnswer is the sentence the model must emit when the context
	// does not contain the answer.
	NotFoundAnswer = "Hehe, I cannot find that information in the policy."

	// SummaryErrorPrefix prefixes the summary when the LLM call fails.
	SummaryErrorPrefix = "AI Error: "
)

// Truncate returns the first n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
