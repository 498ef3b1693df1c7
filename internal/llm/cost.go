package llm

import "unicode/utf8"

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// priceTable maps model identifiers to their pricing.
var priceTable = map[string]modelPricing{
	"gpt-4o":             {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":        {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4.1":            {InputPerMillion: 2.00, OutputPerMillion: 8.00},
	"gpt-4.1-mini":       {InputPerMillion: 0.40, OutputPerMillion: 1.60},
	"openai/gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"openai/gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
}

// EstimateCost returns the cost in USD of a call to model, or 0 for a model
// missing from the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// EstimateTokens approximates the token count of text as one token per four
// characters, rounding a non-empty remainder below four up to one.
func EstimateTokens(text string) int {
	chars := utf8.RuneCountInString(text)
	n := chars / 4
	if n == 0 && chars > 0 {
		return 1
	}
	return n
}
