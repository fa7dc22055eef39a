package usecases

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"whatsapp_crm/internal/entities"
	"whatsapp_crm/internal/interfaces"
)

// MessageService runs the inbound pipeline: classify, log, reply.
type MessageService struct {
	store     interfaces.MessageStore
	messenger interfaces.Messenger
	tenants   interfaces.TenantDirectory
	resolver  *ReplyResolver
	notifier  interfaces.LeadNotifier
	log       *zap.Logger
}

// ProcessResult records what happened to one inbound message.
type ProcessResult struct {
	Message   entities.Message
	Saved     bool
	Reply     string
	Delivered bool
}

func NewMessageService(store interfaces.MessageStore, messenger interfaces.Messenger, tenants interfaces.TenantDirectory, resolver *ReplyResolver, log *zap.Logger) *MessageService {
	return &MessageService{
		store:     store,
		messenger: messenger,
		tenants:   tenants,
		resolver:  resolver,
		log:       log,
	}
}

// WithNotifier enables staff alerts for new leads.
func (s *MessageService) WithNotifier(n interfaces.LeadNotifier) *MessageService {
	s.notifier = n
	return s
}

// ProcessMessage processes one inbound message.
// Persistence and delivery failures are logged and reported in the outcome, never returned;
// the only error is a failure to decide which tenant owns the message.
func (s *MessageService) ProcessMessage(ctx context.Context, in entities.InboundMessage) (*ProcessResult, error) {
	tenantID, err := s.tenants.ResolveTenant(ctx, in.PhoneNumberID)
	if err != nil {
		return nil, fmt.Errorf("process message from %s: %w", in.From, err)
	}

	interest := ClassifyInterest(in.Body)
	log := s.log.With(
		zap.String("phone", in.From),
		zap.Int64("tenant_id", tenantID),
		zap.String("interest", string(interest)),
	)
	log.Info("inbound message", zap.String("text", in.Body))

	out := &ProcessResult{
		Message: entities.Message{
			TenantID: tenantID,
			Phone:    in.From,
			Body:     in.Body,
			Interest: interest,
		},
	}

	// The log entry is written before any reply attempt but does not gate it.
	if err := s.store.Insert(ctx, &out.Message); err != nil {
		log.Error("failed to save lead", zap.Error(err))
	} else {
		out.Saved = true
		log.Info("lead saved", zap.Int64("message_id", out.Message.ID))
	}

	out.Reply = s.resolver.ResolveReply(ctx, in.Body)
	if err := s.messenger.SendText(ctx, in.From, out.Reply); err != nil {
		log.Error("failed to deliver reply", zap.Error(err))
	} else {
		out.Delivered = true
		log.Info("reply sent")
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, out.Message); err != nil {
			log.Warn("lead alert failed", zap.Error(err))
		}
	}

	return out, nil
}
