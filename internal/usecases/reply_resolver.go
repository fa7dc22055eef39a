package usecases

import (
	"context"

	"go.uber.org/zap"

	"whatsapp_crm/internal/interfaces"
)

const (
	// DefaultFallbackReply is the generic answer for messages no rule covers.
	DefaultFallbackReply = "📘 Syllabus ko step-by-step plan ke saath complete karaya jata hai, regular tests aur doubt sessions ke through, taaki concept strong ho aur exam-oriented preparation ho."

	// unavailableReply is used when the fallback source itself fails.
	unavailableReply = "🙏 Thanks for your message! Our team will get back to you shortly."
)

// StaticFallback always answers with the same text.
type StaticFallback struct {
	Text string
}

func (f StaticFallback) GenerateFallback(_ context.Context, _ string) (string, error) {
	if f.Text == "" {
		return DefaultFallbackReply, nil
	}
	return f.Text, nil
}

// ReplyResolver picks a canned reply or defers to the fallback source.
type ReplyResolver struct {
	rules    *RuleTable
	fallback interfaces.FallbackGenerator
	log      *zap.Logger
}

func NewReplyResolver(rules *RuleTable, fallback interfaces.FallbackGenerator, log *zap.Logger) *ReplyResolver {
	if fallback == nil {
		fallback = StaticFallback{}
	}
	return &ReplyResolver{rules: rules, fallback: fallback, log: log}
}

// ResolveReply always returns a reply.
func (r *ReplyResolver) ResolveReply(ctx context.Context, text string) string {
	if rule, ok := r.rules.Match(text); ok {
		r.log.Debug("rule matched", zap.Strings("keywords", rule.Keywords))
		return rule.Reply
	}

	reply, err := r.fallback.GenerateFallback(ctx, text)
	if err != nil || reply == "" {
		r.log.Warn("fallback reply unavailable", zap.Error(err))
		return unavailableReply
	}
	return reply
}
