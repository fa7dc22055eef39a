package usecases

import (
	"context"
	"time"

	"go.uber.org/zap"

	"whatsapp_crm/internal/interfaces"
)

// DefaultNudge is sent to fees leads that went quiet.
const DefaultNudge = "👋 Hi! Kal aapne fees ke baare me poocha tha. Agar koi doubt ho to bataiye 😊"

type FollowupConfig struct {
	Interval time.Duration // time between sweeps
	After    time.Duration // lead age before a nudge is due
	Nudge    string
}

// FollowupSweeper periodically nudges fees leads that never got a follow-up.
type FollowupSweeper struct {
	store     interfaces.MessageStore
	messenger interfaces.Messenger
	cfg       FollowupConfig
	now       func() time.Time
	log       *zap.Logger
}

// SweepResult summarizes one pass.
type SweepResult struct {
	Due    int
	Sent   int
	Failed int
}

func NewFollowupSweeper(store interfaces.MessageStore, messenger interfaces.Messenger, cfg FollowupConfig, log *zap.Logger) *FollowupSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.After <= 0 {
		cfg.After = 24 * time.Hour
	}
	if cfg.Nudge == "" {
		cfg.Nudge = DefaultNudge
	}
	return &FollowupSweeper{
		store:     store,
		messenger: messenger,
		cfg:       cfg,
		now:       time.Now,
		log:       log,
	}
}

// WithClock overrides the time source used to compute the cutoff.
func (s *FollowupSweeper) WithClock(now func() time.Time) *FollowupSweeper {
	s.now = now
	return s
}

// Run sweeps once per interval until ctx is cancelled.
func (s *FollowupSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.Info("follow-up sweeper started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("after", s.cfg.After))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("follow-up sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce nudges every due lead. A failure on one record never stops the others,
// and a record is only marked once its nudge was delivered.
func (s *FollowupSweeper) SweepOnce(ctx context.Context) SweepResult {
	var res SweepResult

	cutoff := s.now().Add(-s.cfg.After)
	due, err := s.store.DueForFollowup(ctx, cutoff)
	if err != nil {
		s.log.Error("follow-up query failed", zap.Error(err))
		return res
	}
	res.Due = len(due)

	for _, m := range due {
		if ctx.Err() != nil {
			break
		}
		log := s.log.With(zap.Int64("message_id", m.ID), zap.String("phone", m.Phone), zap.Int64("tenant_id", m.TenantID))

		if err := s.messenger.SendText(ctx, m.Phone, s.cfg.Nudge); err != nil {
			res.Failed++
			log.Error("follow-up send failed", zap.Error(err))
			continue
		}
		if err := s.store.MarkFollowupSent(ctx, m.ID); err != nil {
			res.Failed++
			log.Error("follow-up sent but not recorded", zap.Error(err))
			continue
		}
		res.Sent++
		log.Info("follow-up sent")
	}

	if res.Due > 0 {
		s.log.Info("follow-up sweep finished", zap.Int("due", res.Due), zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	}
	return res
}
