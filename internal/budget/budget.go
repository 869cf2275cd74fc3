// Package budget tracks token usage and API cost across a run.
package budget

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// Usage holds token counts for a single API call.
type Usage struct {
	InputTokens              int
	OutputTokens             int
	CacheReadInputTokens     int
	CacheCreationInputTokens int
}

// Pricing holds per-model token prices in USD per million tokens.
type Pricing struct {
	InputPerMTok      decimal.Decimal
	OutputPerMTok     decimal.Decimal
	CacheWritePerMTok decimal.Decimal
	CacheReadPerMTok  decimal.Decimal
}

var million = decimal.NewFromInt(1_000_000)

// Cost calculates the cost of one API call at this pricing.
func (p Pricing) Cost(u Usage) decimal.Decimal {
	cost := decimal.NewFromInt(int64(u.InputTokens)).Mul(p.InputPerMTok).Div(million)
	cost = cost.Add(decimal.NewFromInt(int64(u.CacheReadInputTokens)).Mul(p.CacheReadPerMTok).Div(million))
	cost = cost.Add(decimal.NewFromInt(int64(u.CacheCreationInputTokens)).Mul(p.CacheWritePerMTok).Div(million))
	cost = cost.Add(decimal.NewFromInt(int64(u.OutputTokens)).Mul(p.OutputPerMTok).Div(million))
	return cost
}

// DefaultPricing contains built-in pricing for Claude models
// (USD per million tokens).
var DefaultPricing = map[anthropic.Model]Pricing{
	anthropic.ModelClaudeOpus4_6: {
		InputPerMTok:      decimal.NewFromFloat(5),
		OutputPerMTok:     decimal.NewFromFloat(25),
		CacheWritePerMTok: decimal.NewFromFloat(6.25),
		CacheReadPerMTok:  decimal.NewFromFloat(0.5),
	},
	anthropic.ModelClaudeSonnet4_5: {
		InputPerMTok:      decimal.NewFromFloat(3),
		OutputPerMTok:     decimal.NewFromFloat(15),
		CacheWritePerMTok: decimal.NewFromFloat(3.75),
		CacheReadPerMTok:  decimal.NewFromFloat(0.3),
	},
	anthropic.ModelClaudeHaiku4_5: {
		InputPerMTok:      decimal.NewFromFloat(1),
		OutputPerMTok:     decimal.NewFromFloat(5),
		CacheWritePerMTok: decimal.NewFromFloat(1.25),
		CacheReadPerMTok:  decimal.NewFromFloat(0.1),
	},
}

// Tracker accumulates token usage and cost across API calls and enforces an
// optional spend limit. Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	maxBudget  decimal.Decimal // zero = unlimited
	totalCost  decimal.Decimal
	totalUsage Usage
	pricing    map[anthropic.Model]Pricing
}

// NewTracker creates a tracker. A zero maxBudget means unlimited.
func NewTracker(maxBudget decimal.Decimal, pricing map[anthropic.Model]Pricing) *Tracker {
	return &Tracker{
		maxBudget: maxBudget,
		totalCost: decimal.Zero,
		pricing:   pricing,
	}
}

// RecordUsage adds one API call's token usage and updates the running cost.
// Unknown models have their tokens counted with no cost added.
func (t *Tracker) RecordUsage(model anthropic.Model, u Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalUsage.InputTokens += u.InputTokens
	t.totalUsage.OutputTokens += u.OutputTokens
	t.totalUsage.CacheReadInputTokens += u.CacheReadInputTokens
	t.totalUsage.CacheCreationInputTokens += u.CacheCreationInputTokens

	if p, ok := t.pricing[model]; ok {
		t.totalCost = t.totalCost.Add(p.Cost(u))
	}
}

// TotalCost returns the cumulative cost across all recorded usage.
func (t *Tracker) TotalCost() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalCost
}

// TotalUsage returns the cumulative token usage.
func (t *Tracker) TotalUsage() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalUsage
}

// Exhausted reports whether the total cost has reached the limit. Always
// false when the limit is zero (unlimited).
func (t *Tracker) Exhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxBudget.IsZero() {
		return false
	}
	return t.totalCost.GreaterThanOrEqual(t.maxBudget)
}
