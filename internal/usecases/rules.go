package usecases

import "strings"

// Rule pairs a keyword set with a canned reply.
type Rule struct {
	Keywords []string
	Reply    string
}

// DefaultRules returns the canned-reply table in match order.
// Admission questions are deliberately left to the fallback reply.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"fees", "fee", "charges", "price"},
			Reply:    "💰 Fees: ₹25,000 (installment available).",
		},
		{
			Keywords: []string{"batch", "timing", "time", "schedule"},
			Reply:    "🕒 Batch Timings: Morning 7–9 AM | Evening 5–7 PM.",
		},
		{
			Keywords: []string{"location", "address", "where"},
			Reply:    "📍 Location: XYZ Coaching, Main Road.",
		},
	}
}

// RuleTable is an immutable, ordered list of rules.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable copies rules and lowercases their keywords.
func NewRuleTable(rules []Rule) *RuleTable {
	copied := make([]Rule, len(rules))
	for i, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		copied[i] = Rule{Keywords: keywords, Reply: r.Reply}
	}
	return &RuleTable{rules: copied}
}

// Match returns the first rule with any keyword contained in text.
func (t *RuleTable) Match(text string) (Rule, bool) {
	if text == "" {
		return Rule{}, false
	}
	lower := strings.ToLower(text)
	for _, r := range t.rules {
		if containsAny(lower, r.Keywords) {
			return r, true
		}
	}
	return Rule{}, false
}
